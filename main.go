package main

import (
	"github.com/leocov-dev/modgrab/cmd"
	"github.com/leocov-dev/modgrab/config"
)

var Version string
var CfApiKey string

func main() {
	config.SetConfig(
		Version,
		CfApiKey,
	)
	cmd.Execute()
}
