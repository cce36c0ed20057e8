package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/modgrab/core"
	"github.com/leocov-dev/modgrab/fileio"
	"github.com/leocov-dev/modgrab/internal/cmdshared"
	"github.com/leocov-dev/modgrab/internal/shared"
	"github.com/leocov-dev/modgrab/sources"
)

var installVersionIDFlag string
var installTypeFlag string

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:     "install [id|slug|search]",
	Short:   "Install content from Modrinth (plain ID) or CurseForge (cf- prefixed ID), or by searching",
	Aliases: []string{"add", "get"},
	Args:    cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		profileFile, _, err := shared.GetProfilePaths()
		if err != nil {
			shared.Exitln(err)
		}

		fmt.Printf("Loading profile %s\n", profileFile)
		profile, err := fileio.LoadProfile(profileFile)
		if err != nil {
			shared.Exitln(err)
		}

		filter, err := filterFromProfile(profile, installTypeFlag)
		if err != nil {
			shared.Exitln(err)
		}

		if len(args) == 0 || len(args[0]) == 0 {
			shared.Exitln("You must specify a project ID, slug or search term.")
		}

		project, version := resolveInstallTarget(args, filter)

		index := fileio.NewHashIndex()
		targets := []fileio.InstallTarget{{Project: project, Version: version}}

		missing := sources.FindMissingDependencies(version, filter, index, profile.DirFor)
		if len(missing) > 0 {
			fmt.Println("Dependencies found:")
			for _, dep := range missing {
				fmt.Println(dep.Project.Slug)
			}

			if cmdshared.PromptYesNo("Would you like to add them? [Y/n]: ") {
				for _, dep := range missing {
					targets = append(targets, fileio.InstallTarget{Project: dep.Project, Version: dep.Version})
				}
			}
		}

		results := fileio.InstallAll(profile, index, targets, !viper.GetBool("non-interactive"))
		failures := 0
		for _, res := range results {
			if res.Err != nil {
				failures++
				fmt.Printf("Failed to install %s: %v\n", res.Item.Project.Slug, res.Err)
				continue
			}
			fmt.Printf("%s installed (%s, %s)\n", res.Item.Project.Title, res.Value.Path, humanize.Bytes(uint64(res.Value.Size)))
		}
		if failures > 0 {
			shared.Exitf("%d of %d installs failed\n", failures, len(results))
		}
	},
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringVar(&installVersionIDFlag, "version-id", "", "The version/file ID to install, instead of the newest compatible one")
	installCmd.Flags().StringVar(&installTypeFlag, "type", "mod", "The content type to install (mod, datapack, shader, resourcepack)")
}

func filterFromProfile(profile *core.Profile, typeName string) (sources.VersionFilter, error) {
	resourceType := core.ResourceType(typeName)
	switch resourceType {
	case core.TypeMod, core.TypeDatapack, core.TypeShader, core.TypeResourcepack:
	default:
		return sources.VersionFilter{}, fmt.Errorf("unknown content type %q", typeName)
	}

	gameVersions, err := profile.GetSupportedGameVersions()
	if err != nil {
		return sources.VersionFilter{}, err
	}
	return sources.VersionFilter{
		GameVersions: gameVersions,
		Loaders:      profile.GetCompatibleLoaders(),
		Type:         resourceType,
	}, nil
}

// resolveInstallTarget turns the command arguments into a concrete (project,
// version) pair: direct ID/slug lookup first, then interactive search.
func resolveInstallTarget(args []string, filter sources.VersionFilter) (*core.Project, *core.Version) {
	var project *core.Project

	if len(args) == 1 {
		ref := core.ParseProjectRef(args[0])
		found, err := sources.RegistryFor(ref).GetProject(ref)
		if err == nil {
			project = found
		} else if installVersionIDFlag != "" {
			shared.Exitf("Failed to find project %s: %v\n", args[0], err)
		}
	}

	if project == nil {
		query := strings.Join(args, " ")
		fmt.Println("Searching...")

		var projects []*core.Project
		for _, registry := range []sources.Registry{sources.GetModrinthRegistry(), sources.GetCurseforgeRegistry()} {
			found, err := registry.Search(query, filter)
			if err != nil {
				fmt.Printf("Search failed: %v\n", err)
				continue
			}
			projects = append(projects, found...)
		}
		if len(projects) == 0 {
			shared.Exitln("No projects found!")
		}

		chosen, ok := cmdshared.ChooseProject(query, projects)
		if !ok {
			shared.Exitln("Cancelled!")
		}
		project = chosen
	}

	if installVersionIDFlag != "" {
		ref := project.Ref()
		version, err := sources.RegistryFor(ref).GetVersion(ref, installVersionIDFlag)
		if err != nil {
			shared.Exitf("Failed to fetch version %s: %v\n", installVersionIDFlag, err)
		}
		return project, version
	}

	versions, err := sources.ResolveVersions(project.ID, filter)
	if err != nil {
		shared.Exitf("Failed to find a version of %s: %v\n", project.Slug, err)
	}
	return project, versions[0]
}
