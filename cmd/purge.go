package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/logging"
	"github.com/lakshaymaurya-felt/dirpurge/internal/purge"
	"github.com/lakshaymaurya-felt/dirpurge/internal/report"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
	"github.com/lakshaymaurya-felt/dirpurge/internal/ui"
)

// runMode says whether a command may delete.
type runMode int

const (
	// modeFromFlags lets --delete and --dry-run decide.
	modeFromFlags runMode = iota
	// modeScanOnly never deletes, whatever the flags say.
	modeScanOnly
)

var purgeCmd = &cobra.Command{
	Use:   "purge [path]",
	Short: "Delete matching artifact directories",
	Long: `Find artifact directories under path (default: current directory) and,
with --delete, move them to the trash or remove them. Deletion asks for the
confirmation phrase unless --yes is given; --dry-run shows the plan only.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPurge(cmd, args, modeFromFlags)
	},
}

func init() {
	addScanFlags(purgeCmd.Flags())
	addDeleteFlags(purgeCmd.Flags())
}

func runPurge(cmd *cobra.Command, args []string, mode runMode) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if mode == modeScanOnly {
		off := false
		opts.Delete = &off
		opts.DryRun = &off
	}

	sc, del, run, err := opts.Resolve()
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	out := cmd.OutOrStdout()
	if isQuiet(opts) {
		out = io.Discard
	}

	decider, confirmer := ui.NewPrompts(os.Stdin, os.Stdout)
	runner := &purge.Runner{
		Scan:      sc,
		Delete:    del,
		Opts:      run,
		Decider:   decider,
		Confirmer: confirmer,
		Logger:    logger,
		Scanned: func(cands []scan.Candidate) {
			ui.PrintCandidates(out, core.AbsClean(root), cands)
		},
	}
	if isVerbose(opts) && !isQuiet(opts) {
		runner.Progress = func(done, total int, o report.Outcome) {
			fmt.Fprintf(out, "  [%d/%d] %s %s\n", done, total, o.Status, o.Candidate.Path)
		}
	}

	rep, runErr := runner.Run(cmd.Context(), root)
	if rep == nil {
		return runErr
	}

	ui.PrintReport(out, rep)

	if err := writeReports(out, run, rep); err != nil {
		logger.Error("report export failed", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// writeReports writes the optional JSON, CSV and metrics outputs.
func writeReports(out io.Writer, run config.RunConfig, rep *report.Report) error {
	if run.JSONPath != "" {
		if err := report.SaveJSON(run.JSONPath, rep); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Saved JSON report to %s\n", run.JSONPath)
	}
	if run.CSVPath != "" {
		if err := report.SaveCSV(run.CSVPath, rep); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Saved CSV report to %s\n", run.CSVPath)
	}
	if run.MetricsPath != "" {
		if err := report.WriteMetrics(run.MetricsPath, rep); err != nil {
			return err
		}
	}
	return nil
}

// setupLogger maps the verbosity flags to a log level. Quiet wins over
// verbose, and debug over both.
func setupLogger(opts config.Options) (*slog.Logger, func() error, error) {
	level := "warn"
	switch {
	case debug:
		level = "debug"
	case isQuiet(opts):
		level = "error"
	case isVerbose(opts):
		level = "info"
	}

	file := logFile
	if opts.Log != nil {
		file = *opts.Log
	}
	return logging.Setup(logging.Config{Level: level, Format: logFormat, File: file}, os.Stderr)
}
