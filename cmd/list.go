package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/leocov-dev/modgrab/core"
	"github.com/leocov-dev/modgrab/fileio"
	"github.com/leocov-dev/modgrab/internal/shared"
)

var listVersionsFlag bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all the content installed in the profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		profileFile, _, err := shared.GetProfilePaths()
		if err != nil {
			shared.Exitln(err)
		}
		profile, err := fileio.LoadProfile(profileFile)
		if err != nil {
			shared.Exitln(err)
		}

		var metas []*core.Meta
		for _, resourceType := range core.InstallableTypes {
			loaded, err := fileio.ListMetas(profile.DirFor(resourceType))
			if err != nil {
				shared.Exitln(err)
			}
			metas = append(metas, loaded...)
		}

		sort.Slice(metas, func(i, j int) bool {
			return metas[i].Slug() < metas[j].Slug()
		})

		for _, meta := range metas {
			if listVersionsFlag {
				versionID, err := meta.VersionID()
				if err != nil {
					versionID = "?"
				}
				fmt.Printf("%s (%s from %s, version %s)\n", meta.Name, meta.FileName, meta.SourceRegistry(), versionID)
			} else {
				fmt.Println(meta.Name)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVarP(&listVersionsFlag, "version", "v", false, "Print version and source information")
}
