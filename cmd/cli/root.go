package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "sentinel-cli",
	Short: "sentinel-cli is the command-line interface for the Sentinel moderation service.",
	Long:  `A CLI for operating the Sentinel moderation service: inspecting and resolving the review queue, and running one-off classifications against the configured model.`,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)
}

// initConfig reads ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("SENTINEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
