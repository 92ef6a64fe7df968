// Command hedgehog runs the hedgehog platformer, its flag endpoint and a
// headless simulation harness.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/milk9111/hedgehog/config"
	"github.com/milk9111/hedgehog/prefabs"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	prefabsDir string
)

// settings is filled in before any subcommand runs.
var settings config.Settings

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

var rootCmd = &cobra.Command{
	Use:   "hedgehog",
	Short: "A flag-driven hedgehog platformer",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			s.LogLevel = logLevel
		}
		if cmd.Flags().Changed("prefabs") {
			s.PrefabsDir = prefabsDir
		}
		settings = s

		logger.SetLevel(settings.Level())
		log.SetDefault(logger)
		prefabs.SetDir(settings.PrefabsDir)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&prefabsDir, "prefabs", "prefabs", "directory searched for prefab overrides")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
