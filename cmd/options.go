package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
)

// Scan and deletion flags, shared by the root, purge and scan commands.
var (
	targets        []string
	presets        []string
	excludes       []string
	depth          int
	minSize        string
	minAge         int
	deepAge        bool
	followSymlinks bool

	deleteDirs    bool
	yes           bool
	dryRun        bool
	useTrash      bool
	trashDir      string
	backup        bool
	archive       bool
	backupDir     string
	interactive   bool
	confirmPhrase string

	jsonOut     string
	csvOut      string
	metricsFile string
	cfgFile     string
	saveConfig  string
	workers     int
)

// addScanFlags registers the flags that control what is found.
func addScanFlags(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&targets, "target", "t", nil, "Directory names to look for (repeatable; default: venv, .venv, node_modules, target, bin, build)")
	fs.StringSliceVar(&presets, "preset", nil, "Add a named target set: "+strings.Join(config.PresetNames(), ", "))
	fs.StringSliceVarP(&excludes, "exclude", "e", nil, "Directory names never matched nor descended into")
	fs.IntVar(&depth, "depth", 0, "Maximum depth below the root (0 = unlimited)")
	fs.StringVar(&minSize, "min-size", "", "Minimum size to consider (e.g. 50, 50MB, 1.5GiB; bare numbers are MiB)")
	fs.IntVar(&minAge, "min-age", 0, "Minimum age in days since last modification")
	fs.BoolVar(&deepAge, "deep-age", false, "Measure age from the newest file inside a directory")
	fs.BoolVar(&followSymlinks, "follow-symlinks", false, "Follow symbolic links while scanning")
	fs.IntVar(&workers, "workers", 0, "Parallel size evaluations (default: number of CPUs)")
	fs.StringVar(&jsonOut, "json", "", "Write a JSON report to this file")
	fs.StringVar(&csvOut, "csv", "", "Write a CSV report to this file")
	fs.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this file")
	fs.StringVarP(&cfgFile, "config", "c", "", "Load options from a YAML or JSON file")
	fs.StringVar(&saveConfig, "save-config", "", "Save the effective options to a YAML or JSON file")
}

// addDeleteFlags registers the flags that control what happens to matches.
func addDeleteFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&deleteDirs, "delete", false, "Delete the selected directories")
	fs.BoolVarP(&yes, "yes", "y", false, "Skip the confirmation phrase")
	fs.BoolVarP(&dryRun, "dry-run", "d", false, "Show what would be done without changing anything")
	fs.BoolVar(&useTrash, "use-trash", true, "Move to the trash instead of deleting permanently")
	fs.StringVar(&trashDir, "trash-dir", "", "Use this directory as the trash")
	fs.BoolVarP(&backup, "backup", "b", false, "Copy each directory to the backup directory first")
	fs.BoolVarP(&archive, "archive", "a", false, "Zip each directory into the backup directory first")
	fs.StringVar(&backupDir, "backup-dir", config.DefaultBackupDir, "Where backups and archives are written")
	fs.BoolVarP(&interactive, "interactive", "i", false, "Decide for each directory")
	fs.StringVar(&confirmPhrase, "confirm-phrase", config.DefaultConfirmPhrase, "Phrase that must be typed to confirm deletion")
}

// flagOptions returns the options explicitly set on the command line.
func flagOptions(cmd *cobra.Command) config.Options {
	fs := cmd.Flags()
	var o config.Options

	if fs.Changed("target") {
		o.Target = targets
	}
	if fs.Changed("preset") {
		o.Preset = presets
	}
	if fs.Changed("exclude") {
		o.Exclude = excludes
	}
	setIfChanged(fs, "depth", &o.Depth, depth)
	setIfChanged(fs, "min-size", &o.MinSize, minSize)
	setIfChanged(fs, "min-age", &o.MinAge, minAge)
	setIfChanged(fs, "deep-age", &o.DeepAge, deepAge)
	setIfChanged(fs, "follow-symlinks", &o.FollowSymlinks, followSymlinks)
	setIfChanged(fs, "workers", &o.Workers, workers)
	setIfChanged(fs, "json", &o.JSON, jsonOut)
	setIfChanged(fs, "csv", &o.CSV, csvOut)
	setIfChanged(fs, "metrics-file", &o.MetricsFile, metricsFile)

	setIfChanged(fs, "delete", &o.Delete, deleteDirs)
	setIfChanged(fs, "yes", &o.Yes, yes)
	setIfChanged(fs, "dry-run", &o.DryRun, dryRun)
	setIfChanged(fs, "use-trash", &o.UseTrash, useTrash)
	setIfChanged(fs, "trash-dir", &o.TrashDir, trashDir)
	setIfChanged(fs, "backup", &o.Backup, backup)
	setIfChanged(fs, "archive", &o.Archive, archive)
	setIfChanged(fs, "backup-dir", &o.BackupDir, backupDir)
	setIfChanged(fs, "interactive", &o.Interactive, interactive)
	setIfChanged(fs, "confirm-phrase", &o.ConfirmPhrase, confirmPhrase)

	setIfChanged(fs, "log", &o.Log, logFile)
	setIfChanged(fs, "verbose", &o.Verbose, verbose)
	setIfChanged(fs, "quiet", &o.Quiet, quiet)
	return o
}

func setIfChanged[T any](fs *pflag.FlagSet, name string, dst **T, v T) {
	if f := fs.Lookup(name); f != nil && f.Changed {
		*dst = &v
	}
}

// loadOptions layers explicitly set flags over the config file, if any,
// and saves the result when --save-config is given.
func loadOptions(cmd *cobra.Command) (config.Options, error) {
	var opts config.Options
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return config.Options{}, err
		}
		opts = loaded
	}
	opts.Merge(flagOptions(cmd))

	if saveConfig != "" {
		if err := config.Save(saveConfig, opts); err != nil {
			return config.Options{}, err
		}
		if !isQuiet(opts) {
			fmt.Fprintf(cmd.OutOrStdout(), "  Saved configuration to %s\n", saveConfig)
		}
	}
	return opts, nil
}

func isQuiet(o config.Options) bool {
	return o.Quiet != nil && *o.Quiet
}

func isVerbose(o config.Options) bool {
	return o.Verbose != nil && *o.Verbose
}
