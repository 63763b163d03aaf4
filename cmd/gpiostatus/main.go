// Gpiostatus shows the state of a Raspberry Pi GPIO header.
//
// It runs in two roles. On the Pi, "gpiostatus serve" answers status
// requests by reading raspi-gpio and raspi-config. Anywhere else, "show",
// "watch", and "scan" fetch that status and render the pin table, the
// enabled interfaces, and the board facts.
//
// Usage:
//
//	gpiostatus [command] [flags]
//
// Running without arguments opens the live watch screen.
// See 'gpiostatus --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/settings"
	"github.com/muurk/gpiostatus/internal/version"
)

// Global flags
var (
	configPath string
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gpiostatus",
	Short: "Raspberry Pi GPIO status viewer",
	Long: `Show the pin functions, pulls, and levels of a Raspberry Pi GPIO header.

Run 'gpiostatus serve' on the Pi, then view its status from any machine
with 'gpiostatus show' or the live 'gpiostatus watch' screen.

If no command is specified, the watch screen opens.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: open the watch screen
		return runWatch(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: OS config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error; default: "+logging.LogLevelEnvVar+" or silent)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gpiostatus %s (commit: %s)\n", version.Version, version.Commit)
	},
}

// openSettings loads the settings file named by --config.
func openSettings() (*settings.Store, error) {
	st, err := settings.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return st, nil
}
