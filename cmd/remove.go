package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leocov-dev/modgrab/fileio"
	"github.com/leocov-dev/modgrab/internal/shared"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove [name]",
	Short:   "Remove installed content from the profile",
	Aliases: []string{"delete", "uninstall"},
	Args:    cobra.ExactArgs(1),
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
		if err := fileio.Remove(profile, index, args[0]); err != nil {
			shared.Exitf("Failed to remove %s: %v\n", args[0], err)
		}
		fmt.Printf("%s removed successfully!\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
