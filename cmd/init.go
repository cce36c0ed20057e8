package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/igorsobreira/titlecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/leocov-dev/modgrab/core"
	"github.com/leocov-dev/modgrab/fileio"
	"github.com/leocov-dev/modgrab/internal/cmdshared"
	"github.com/leocov-dev/modgrab/internal/shared"
)

var knownLoaders = []string{"fabric", "quilt", "forge", "neoforge", "none"}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise a modgrab profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		profileFile, _, err := shared.GetProfilePaths()
		if err != nil {
			shared.Exitln(err)
		}

		if err := checkReinit(profileFile); err != nil {
			shared.Exitln(err)
		}

		name := getProfileName(cmd)
		author := getAuthorName(cmd)
		gameVersion := getGameVersion()
		loaders, err := getLoaders()
		if err != nil {
			shared.Exitln(err)
		}

		profile := core.NewProfile(name, author, gameVersion, loaders)
		profile.SetFilePath(profileFile)

		if err := fileio.WriteProfile(profile); err != nil {
			shared.Exitln(err)
		}

		fmt.Println(viper.GetString("profile-file") + " created!")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("name", "", "The name of the profile (omit to define interactively)")
	initCmd.Flags().String("author", "", "The author of the profile (omit to define interactively)")
	initCmd.Flags().String("game-version", "", "The Minecraft version to use (omit to define interactively)")
	_ = viper.BindPFlag("init.game-version", initCmd.Flags().Lookup("game-version"))
	initCmd.Flags().BoolP("reinit", "r", false, "Recreate the profile file if it already exists, rather than exiting")
	_ = viper.BindPFlag("init.reinit", initCmd.Flags().Lookup("reinit"))
	initCmd.Flags().String("loader", "", "The mod loader to use (omit to define interactively)")
	_ = viper.BindPFlag("init.loader", initCmd.Flags().Lookup("loader"))
	initCmd.Flags().String("loader-version", "", "The mod loader version to use")
	_ = viper.BindPFlag("init.loader-version", initCmd.Flags().Lookup("loader-version"))
}

func checkReinit(profileFile string) error {
	_, err := os.Stat(profileFile)
	if err == nil && !viper.GetBool("init.reinit") {
		return errors.New("profile metadata file already exists, use -r to override")
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error checking profile file: %s", err)
	}
	return nil
}

func getProfileName(cmd *cobra.Command) string {
	name, err := cmd.Flags().GetString("name")
	if err != nil || len(name) == 0 {
		// Get current file directory name
		wd, err := os.Getwd()
		directoryName := "."
		if err == nil {
			directoryName = filepath.Base(wd)
		}
		if directoryName != "." && len(directoryName) > 0 {
			// Turn directory name into a space-seperated proper name
			name = titlecase.Title(strings.ReplaceAll(strings.ReplaceAll(strings.Join(camelcase.Split(directoryName), " "), " - ", " "), " _ ", " "))
			name = cmdshared.ReadValue("Profile name ["+name+"]: ", name)
		} else {
			name = cmdshared.ReadValue("Profile name: ", "")
		}
	}

	return name
}

func getAuthorName(cmd *cobra.Command) string {
	author, err := cmd.Flags().GetString("author")
	if err != nil || len(author) == 0 {
		author = cmdshared.ReadValue("Author: ", "")
	}

	return author
}

func getGameVersion() string {
	gameVersion := viper.GetString("init.game-version")
	if len(gameVersion) == 0 {
		gameVersion = cmdshared.ReadValue("Minecraft version: ", "")
	}
	if len(gameVersion) == 0 {
		shared.Exitln("A Minecraft version is required")
	}
	return gameVersion
}

func getLoaders() (map[string]string, error) {
	loaderName := strings.ToLower(viper.GetString("init.loader"))
	if len(loaderName) == 0 {
		loaderName = strings.ToLower(cmdshared.ReadValue("Mod loader [fabric]: ", "fabric"))
	}
	if !slices.Contains(knownLoaders, loaderName) {
		return nil, fmt.Errorf("unknown mod loader %q (expected one of %s)", loaderName, strings.Join(knownLoaders, ", "))
	}

	loaders := make(map[string]string)
	if loaderName != "none" {
		version := viper.GetString("init.loader-version")
		if len(version) == 0 {
			version = cmdshared.ReadValue(titlecase.Title(loaderName)+" version: ", "")
		}
		loaders[loaderName] = version
	}
	return loaders, nil
}
