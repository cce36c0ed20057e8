package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leocov-dev/modgrab/internal/shared"
	"github.com/leocov-dev/modgrab/mcping"
)

var pingTimeoutFlag time.Duration

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping [host|host:port]",
	Short: "Query the status of a Minecraft server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pinger := &mcping.Pinger{Timeout: pingTimeoutFlag}
		status, err := pinger.Ping(args[0])
		if err != nil {
			shared.Exitln(err)
		}

		fmt.Printf("%s is online\n", args[0])
		fmt.Printf("  Version: %s (protocol %d)\n", status.Version.Name, status.Version.Protocol)
		fmt.Printf("  Players: %d / %d\n", status.Players.Online, status.Players.Max)
		if status.Description.Text != "" {
			fmt.Printf("  MOTD:    %s\n", status.Description)
		}
		if status.ModInfo != nil && len(status.ModInfo.ModList) > 0 {
			fmt.Printf("  Mods:    %d (%s)\n", len(status.ModInfo.ModList), status.ModInfo.Type)
		}
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)

	pingCmd.Flags().DurationVar(&pingTimeoutFlag, "timeout", mcping.DefaultTimeout, "How long to wait for the server to respond")
}
