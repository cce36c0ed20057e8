package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/modgrab/config"
	"github.com/leocov-dev/modgrab/fileio"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modgrab",
	Short: "A command line tool for managing the content of a Minecraft instance",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		fileio.SetMirrorURL(viper.GetString("mirror-url"))
		config.SetFileDetailConcurrency(viper.GetInt("file-detail-concurrency"))
		config.SetDependencyConcurrency(viper.GetInt("dependency-concurrency"))
		config.SetDownloadConcurrency(viper.GetInt("download-concurrency"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("profile-file", "profile.toml", "The profile metadata file to use")
	_ = viper.BindPFlag("profile-file", rootCmd.PersistentFlags().Lookup("profile-file"))
	rootCmd.PersistentFlags().BoolP("non-interactive", "y", false, "Use default values instead of prompting")
	_ = viper.BindPFlag("non-interactive", rootCmd.PersistentFlags().Lookup("non-interactive"))
	rootCmd.PersistentFlags().String("mirror-url", "", "Route CurseForge CDN downloads through a mirror prefix")
	_ = viper.BindPFlag("mirror-url", rootCmd.PersistentFlags().Lookup("mirror-url"))
	rootCmd.PersistentFlags().Int("file-detail-concurrency", config.FileDetailConcurrency, "Maximum concurrent file-detail fetches")
	_ = viper.BindPFlag("file-detail-concurrency", rootCmd.PersistentFlags().Lookup("file-detail-concurrency"))
	rootCmd.PersistentFlags().Int("dependency-concurrency", config.DependencyConcurrency, "Maximum concurrent dependency resolutions")
	_ = viper.BindPFlag("dependency-concurrency", rootCmd.PersistentFlags().Lookup("dependency-concurrency"))
	rootCmd.PersistentFlags().Int("download-concurrency", config.DownloadConcurrency, "Maximum concurrent downloads")
	_ = viper.BindPFlag("download-concurrency", rootCmd.PersistentFlags().Lookup("download-concurrency"))

	viper.SetEnvPrefix("MODGRAB")
	viper.AutomaticEnv()
}
