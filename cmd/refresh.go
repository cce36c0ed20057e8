package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/modgrab/fileio"
	"github.com/leocov-dev/modgrab/internal/shared"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:     "refresh",
	Short:   "Re-verify installed content against its metadata, restoring missing or corrupted files",
	Aliases: []string{"rehash"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		profileFile, _, err := shared.GetProfilePaths()
		if err != nil {
			shared.Exitln(err)
		}
		profile, err := fileio.LoadProfile(profileFile)
		if err != nil {
			shared.Exitln(err)
		}

		index := fileio.NewHashIndex()
		results := fileio.Refresh(profile, index, !viper.GetBool("non-interactive"))

		failures := 0
		for _, res := range results {
			if res.Err != nil {
				failures++
				fmt.Printf("Failed to refresh %s: %v\n", res.Item.FileName, res.Err)
			}
		}
		if failures > 0 {
			shared.Exitf("%d of %d files could not be refreshed\n", failures, len(results))
		}
		fmt.Printf("%d files verified\n", len(results))
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
