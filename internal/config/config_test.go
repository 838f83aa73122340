package config

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int        { return &i }
func boolPtr(b bool) *bool     { return &b }

func TestResolveDefaults(t *testing.T) {
	scan, del, run, err := Options{}.Resolve()
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(scan.Targets, DefaultTargets) {
		t.Errorf("Targets = %v, want %v", scan.Targets, DefaultTargets)
	}
	if scan.MaxDepth != 0 || scan.MinSize != 0 || scan.MinAge != 0 {
		t.Errorf("unexpected thresholds: %+v", scan)
	}
	if !del.UseTrash {
		t.Error("UseTrash should default to true")
	}
	if del.BackupDir != DefaultBackupDir {
		t.Errorf("BackupDir = %q, want %q", del.BackupDir, DefaultBackupDir)
	}
	if run.ConfirmPhrase != DefaultConfirmPhrase {
		t.Errorf("ConfirmPhrase = %q, want %q", run.ConfirmPhrase, DefaultConfirmPhrase)
	}
	if run.Workers <= 0 {
		t.Errorf("Workers = %d, want > 0", run.Workers)
	}
	if run.Executes(del) {
		t.Error("default run should be scan-only")
	}
}

func TestResolveValues(t *testing.T) {
	opts := Options{
		Target:  []string{"node_modules", "node_modules", " "},
		Exclude: []string{"dist"},
		Depth:   intPtr(3),
		MinSize: strPtr("10"),
		MinAge:  intPtr(7),
		DryRun:  boolPtr(true),
	}

	scan, del, run, err := opts.Resolve()
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(scan.Targets, []string{"node_modules"}) {
		t.Errorf("Targets = %v", scan.Targets)
	}
	if scan.MinSize != 10*1024*1024 {
		t.Errorf("MinSize = %d, want %d", scan.MinSize, 10*1024*1024)
	}
	if scan.MinAge != 7*24*time.Hour {
		t.Errorf("MinAge = %v", scan.MinAge)
	}
	if scan.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d", scan.MaxDepth)
	}
	if !run.Executes(del) {
		t.Error("dry run should reach the executor")
	}
}

func TestResolvePresets(t *testing.T) {
	scan, _, _, err := Options{Preset: []string{"rust"}, Target: []string{"node_modules"}}.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"node_modules", "target"}
	if !reflect.DeepEqual(scan.Targets, want) {
		t.Errorf("Targets = %v, want %v", scan.Targets, want)
	}

	if _, _, _, err := (Options{Preset: []string{"cobol"}}).Resolve(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unknown preset error = %v, want ErrInvalidConfig", err)
	}
}

func TestResolveInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"negative depth", Options{Depth: intPtr(-1)}, ErrInvalidConfig},
		{"bad size", Options{MinSize: strPtr("lots")}, ErrInvalidConfig},
		{"negative age", Options{MinAge: intPtr(-2)}, ErrInvalidConfig},
		{"zero workers", Options{Workers: intPtr(0)}, ErrInvalidConfig},
		{"blank phrase", Options{ConfirmPhrase: strPtr("  ")}, ErrInvalidConfig},
		{"empty targets", Options{Target: []string{}}, ErrNoTargets},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := tt.opts.Resolve()
			if !errors.Is(err, tt.want) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMergeOverridesOnlySetFields(t *testing.T) {
	base := Options{Target: []string{"venv"}, Depth: intPtr(2), Yes: boolPtr(true)}
	base.Merge(Options{Depth: intPtr(5)})

	if *base.Depth != 5 {
		t.Errorf("Depth = %d, want 5", *base.Depth)
	}
	if !*base.Yes {
		t.Error("Yes should be kept")
	}
	if !reflect.DeepEqual(base.Target, []string{"venv"}) {
		t.Errorf("Target = %v", base.Target)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"settings.yaml", "settings.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			in := Options{
				Target:        []string{"node_modules", "target"},
				MinSize:       strPtr("50MB"),
				UseTrash:      boolPtr(false),
				ConfirmPhrase: strPtr("PURGE"),
			}

			if err := Save(path, in); err != nil {
				t.Fatal(err)
			}
			out, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNeverDeletePathsIncludesHome(t *testing.T) {
	home := homeDir()
	if home == "" {
		t.Skip("no home directory")
	}
	for _, p := range GetNeverDeletePaths() {
		if p == filepath.Clean(home) {
			return
		}
	}
	t.Errorf("home %q not protected", home)
}
