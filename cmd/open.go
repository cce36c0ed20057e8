package cmd

import (
	"fmt"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/leocov-dev/modgrab/fileio"
	"github.com/leocov-dev/modgrab/internal/shared"
	"github.com/leocov-dev/modgrab/sources"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:     "open [name]",
	Short:   "Open the project page for installed content in your browser",
	Aliases: []string{"doc"},
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

		meta, _, err := fileio.FindMeta(profile, args[0])
		if err != nil {
			shared.Exitln(err)
		}
		ref, err := meta.ProjectRef()
		if err != nil {
			shared.Exitln(err)
		}

		project, err := sources.RegistryFor(ref).GetProject(ref)
		if err != nil {
			shared.Exitf("Failed to fetch project information: %v\n", err)
		}
		if project.PageURL == "" {
			shared.Exitln("This project has no page URL")
		}

		fmt.Println("Opening", project.PageURL)
		if err := open.Start(project.PageURL); err != nil {
			shared.Exitln(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
