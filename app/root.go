// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "biluochun",
	Short: "biluochun is the team management backend of the modding jam",
	Long: `biluochun keeps users, signed in through single sign-on, and the teams
they form with invite codes. It serves a json api for the web frontend.`,
	Args: cobra.OnlyValidArgs,
}

var configPath string // directory holding main.toml

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory of main.toml (default ./etc/)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
