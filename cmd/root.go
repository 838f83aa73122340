package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/dirpurge/internal/purge"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	debug     bool
	logFile   string
	logFormat string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
	rootCmd.Version = version
}

var rootCmd = &cobra.Command{
	Use:   "dirpurge [path]",
	Short: "Find and safely delete build artifact directories",
	Long: `dirpurge - find and safely delete build artifact directories.

Scans a directory tree for directories with well-known artifact names
(node_modules, target, venv, ...), reports their size and age, and with
--delete moves them to the trash or removes them, optionally after a
backup or zip archive. Matched directories are never descended into.

Without --delete or --dry-run nothing is changed.`,
	Example: `  dirpurge ./project
  dirpurge ./src -t node_modules --delete
  dirpurge . --config settings.yaml
  dirpurge . -i --use-trash --delete`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPurge(cmd, args, modeFromFlags)
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	// Aborts and partial failures were already explained in the summary.
	if !errors.Is(err, purge.ErrAborted) && !errors.Is(err, purge.ErrPartialFailure) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each directory as it is processed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print errors")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	addScanFlags(rootCmd.Flags())
	addDeleteFlags(rootCmd.Flags())

	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
