// Package cli implements the ecosphere command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecosphere-platform/ecosphere/internal/api"
	"github.com/ecosphere-platform/ecosphere/internal/daemon"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", daemon.ConfigPath(),
		"Path to the TOML config file")
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "ecosphere",
	Short: "Carbon offset ledger and rewards platform",
	Long: `EcoSphere tracks carbon footprints, sells offset credits from a
marketplace, and rewards users with SuperCoins for fully offsetting
their carbon-tax liability.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "ecosphere %s\n", api.Version)
	},
}

func loadConfig() (daemon.Config, error) {
	return daemon.Load(configPath)
}
