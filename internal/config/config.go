package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
)

const (
	// DefaultConfirmPhrase must be typed verbatim before a destructive run.
	DefaultConfirmPhrase = "DELETE"

	// DefaultBackupDir receives backups and archives when none is configured.
	DefaultBackupDir = "./backups"
)

// DefaultTargets are the directory names searched for when none are given.
var DefaultTargets = []string{"venv", ".venv", "node_modules", "target", "bin", "build"}

var (
	// ErrNoTargets is returned when the resolved target set is empty.
	ErrNoTargets = errors.New("no target directory names configured")

	// ErrInvalidConfig is returned when a numeric option is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ─── Resolved configuration ──────────────────────────────────────────────────

// ScanConfig controls which directories become candidates. It is built once
// by Resolve and passed by value; nothing mutates it afterwards.
type ScanConfig struct {
	Targets         []string
	Excludes        []string
	MaxDepth        int // 0 = unlimited
	FollowSymlinks  bool
	MinSize         int64
	MinAge          time.Duration
	AgeFromContents bool

	// CaseInsensitive compares names without regard to case (default on Windows).
	CaseInsensitive bool

	// SkipPaths are absolute paths pruned from traversal (backup and trash dirs).
	SkipPaths []string
}

// DeletionConfig controls what happens to each selected directory.
type DeletionConfig struct {
	Backup    bool
	Archive   bool
	UseTrash  bool
	BackupDir string
	TrashDir  string // empty = platform trash
	DryRun    bool
}

// NeedsBackupDir reports whether any action writes into BackupDir.
func (d DeletionConfig) NeedsBackupDir() bool {
	return d.Backup || d.Archive
}

// RunConfig holds the switches that decide how far the pipeline goes.
type RunConfig struct {
	Delete        bool
	Yes           bool
	Interactive   bool
	ConfirmPhrase string
	Workers       int

	JSONPath    string
	CSVPath     string
	MetricsPath string
}

// Executes reports whether candidates reach the executor at all.
func (r RunConfig) Executes(del DeletionConfig) bool {
	return r.Delete || del.DryRun
}

// ─── File / flag form ────────────────────────────────────────────────────────

// Options is the serialisable form of the configuration. Every field is a
// pointer so that a config file value can be told apart from an unset one
// and overridden by explicitly set flags.
type Options struct {
	Target         []string `yaml:"target,omitempty" json:"target,omitempty"`
	Preset         []string `yaml:"preset,omitempty" json:"preset,omitempty"`
	Exclude        []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Depth          *int     `yaml:"depth,omitempty" json:"depth,omitempty"`
	MinSize        *string  `yaml:"min_size,omitempty" json:"min_size,omitempty"`
	MinAge         *int     `yaml:"min_age,omitempty" json:"min_age,omitempty"`
	DeepAge        *bool    `yaml:"deep_age,omitempty" json:"deep_age,omitempty"`
	FollowSymlinks *bool    `yaml:"follow_symlinks,omitempty" json:"follow_symlinks,omitempty"`
	Delete         *bool    `yaml:"delete,omitempty" json:"delete,omitempty"`
	Yes            *bool    `yaml:"yes,omitempty" json:"yes,omitempty"`
	DryRun         *bool    `yaml:"dry_run,omitempty" json:"dry_run,omitempty"`
	UseTrash       *bool    `yaml:"use_trash,omitempty" json:"use_trash,omitempty"`
	TrashDir       *string  `yaml:"trash_dir,omitempty" json:"trash_dir,omitempty"`
	Backup         *bool    `yaml:"backup,omitempty" json:"backup,omitempty"`
	Archive        *bool    `yaml:"archive,omitempty" json:"archive,omitempty"`
	BackupDir      *string  `yaml:"backup_dir,omitempty" json:"backup_dir,omitempty"`
	Interactive    *bool    `yaml:"interactive,omitempty" json:"interactive,omitempty"`
	ConfirmPhrase  *string  `yaml:"confirm_phrase,omitempty" json:"confirm_phrase,omitempty"`
	Workers        *int     `yaml:"workers,omitempty" json:"workers,omitempty"`
	JSON           *string  `yaml:"json,omitempty" json:"json,omitempty"`
	CSV            *string  `yaml:"csv,omitempty" json:"csv,omitempty"`
	MetricsFile    *string  `yaml:"metrics_file,omitempty" json:"metrics_file,omitempty"`
	Log            *string  `yaml:"log,omitempty" json:"log,omitempty"`
	Verbose        *bool    `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	Quiet          *bool    `yaml:"quiet,omitempty" json:"quiet,omitempty"`
}

// Merge copies every field that is set in over onto o.
func (o *Options) Merge(over Options) {
	if over.Target != nil {
		o.Target = over.Target
	}
	if over.Preset != nil {
		o.Preset = over.Preset
	}
	if over.Exclude != nil {
		o.Exclude = over.Exclude
	}
	mergePtr(&o.Depth, over.Depth)
	mergePtr(&o.MinSize, over.MinSize)
	mergePtr(&o.MinAge, over.MinAge)
	mergePtr(&o.DeepAge, over.DeepAge)
	mergePtr(&o.FollowSymlinks, over.FollowSymlinks)
	mergePtr(&o.Delete, over.Delete)
	mergePtr(&o.Yes, over.Yes)
	mergePtr(&o.DryRun, over.DryRun)
	mergePtr(&o.UseTrash, over.UseTrash)
	mergePtr(&o.TrashDir, over.TrashDir)
	mergePtr(&o.Backup, over.Backup)
	mergePtr(&o.Archive, over.Archive)
	mergePtr(&o.BackupDir, over.BackupDir)
	mergePtr(&o.Interactive, over.Interactive)
	mergePtr(&o.ConfirmPhrase, over.ConfirmPhrase)
	mergePtr(&o.Workers, over.Workers)
	mergePtr(&o.JSON, over.JSON)
	mergePtr(&o.CSV, over.CSV)
	mergePtr(&o.MetricsFile, over.MetricsFile)
	mergePtr(&o.Log, over.Log)
	mergePtr(&o.Verbose, over.Verbose)
	mergePtr(&o.Quiet, over.Quiet)
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Resolve applies defaults and validation and returns the immutable
// configuration values the pipeline runs on.
func (o Options) Resolve() (ScanConfig, DeletionConfig, RunConfig, error) {
	targets, err := o.targetNames()
	if err != nil {
		return ScanConfig{}, DeletionConfig{}, RunConfig{}, err
	}

	depth := valueOr(o.Depth, 0)
	if depth < 0 {
		return ScanConfig{}, DeletionConfig{}, RunConfig{}, fmt.Errorf("%w: depth must be >= 0, got %d", ErrInvalidConfig, depth)
	}

	var minSize int64
	if o.MinSize != nil && strings.TrimSpace(*o.MinSize) != "" {
		minSize, err = core.ParseSize(*o.MinSize)
		if err != nil {
			return ScanConfig{}, DeletionConfig{}, RunConfig{}, fmt.Errorf("%w: min-size: %v", ErrInvalidConfig, err)
		}
	}

	minAgeDays := valueOr(o.MinAge, 0)
	if minAgeDays < 0 {
		return ScanConfig{}, DeletionConfig{}, RunConfig{}, fmt.Errorf("%w: min-age must be >= 0, got %d", ErrInvalidConfig, minAgeDays)
	}

	workers := valueOr(o.Workers, runtime.NumCPU())
	if workers <= 0 {
		return ScanConfig{}, DeletionConfig{}, RunConfig{}, fmt.Errorf("%w: workers must be > 0, got %d", ErrInvalidConfig, workers)
	}

	phrase := valueOr(o.ConfirmPhrase, DefaultConfirmPhrase)
	if strings.TrimSpace(phrase) == "" {
		return ScanConfig{}, DeletionConfig{}, RunConfig{}, fmt.Errorf("%w: confirm phrase must not be blank", ErrInvalidConfig)
	}

	backupDir := valueOr(o.BackupDir, DefaultBackupDir)
	if backupDir == "" {
		backupDir = DefaultBackupDir
	}

	scan := ScanConfig{
		Targets:         targets,
		Excludes:        dedupe(o.Exclude),
		MaxDepth:        depth,
		FollowSymlinks:  valueOr(o.FollowSymlinks, false),
		MinSize:         minSize,
		MinAge:          time.Duration(minAgeDays) * 24 * time.Hour,
		AgeFromContents: valueOr(o.DeepAge, false),
		CaseInsensitive: runtime.GOOS == "windows",
	}

	del := DeletionConfig{
		Backup:    valueOr(o.Backup, false),
		Archive:   valueOr(o.Archive, false),
		UseTrash:  valueOr(o.UseTrash, true),
		BackupDir: backupDir,
		TrashDir:  valueOr(o.TrashDir, ""),
		DryRun:    valueOr(o.DryRun, false),
	}

	run := RunConfig{
		Delete:        valueOr(o.Delete, false),
		Yes:           valueOr(o.Yes, false),
		Interactive:   valueOr(o.Interactive, false),
		ConfirmPhrase: phrase,
		Workers:       workers,
		JSONPath:      valueOr(o.JSON, ""),
		CSVPath:       valueOr(o.CSV, ""),
		MetricsPath:   valueOr(o.MetricsFile, ""),
	}

	return scan, del, run, nil
}

// targetNames combines explicit targets with preset expansions, falling back
// to DefaultTargets when neither is given.
func (o Options) targetNames() ([]string, error) {
	var names []string
	names = append(names, o.Target...)
	for _, p := range o.Preset {
		t, ok := LookupPreset(p)
		if !ok {
			return nil, fmt.Errorf("%w: unknown preset %q (known: %s)", ErrInvalidConfig, p, strings.Join(PresetNames(), ", "))
		}
		names = append(names, t.Names...)
	}
	if o.Target == nil && o.Preset == nil {
		names = append(names, DefaultTargets...)
	}

	names = dedupe(names)
	if len(names) == 0 {
		return nil, ErrNoTargets
	}
	return names, nil
}

// dedupe drops blanks and duplicates while keeping first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
