package cmd

import (
	"fmt"
	"log/slog"

	"github.com/skilldock/skilldock/internal/logging"
	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "skilldock",
	Short: "Manage AI coding tool skills across registries and targets",
	Long: `Skilldock discovers skill packages across every configured root and
shows, per AI coding tool, whether each skill is enabled, disabled,
or not installed. Toggle enablement per tool, install new skills from
git repositories, and manage extra scan roots - all from one place.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetDefault(logging.New(logging.Options{Level: slog.LevelDebug}))
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("skilldock %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
