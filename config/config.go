package config

import (
	"encoding/base64"
	"fmt"
)

var (
	Version  string
	cfApiKey string
)

// Concurrency ceilings for batched network work. Overridable through flags so
// they are policy, not constants baked into call sites.
var (
	FileDetailConcurrency = 20
	DependencyConcurrency = 10
	DownloadConcurrency   = 4
)

func SetConfig(version, curseforgeApiKey string) {
	Version = version
	cfApiKey = curseforgeApiKey
}

func SetFileDetailConcurrency(n int) {
	if n > 0 {
		FileDetailConcurrency = n
	}
}

func SetDependencyConcurrency(n int) {
	if n > 0 {
		DependencyConcurrency = n
	}
}

func SetDownloadConcurrency(n int) {
	if n > 0 {
		DownloadConcurrency = n
	}
}

// DecodeCfApiKey returns the CurseForge API key, which is baked in (or passed
// in) base64-encoded to keep it out of casual string dumps.
func DecodeCfApiKey() (string, error) {
	k, err := base64.StdEncoding.DecodeString(cfApiKey)
	if err != nil || len(k) == 0 {
		return "", fmt.Errorf("failed to decode CF API key: %s", err)
	}
	return string(k), nil
}
