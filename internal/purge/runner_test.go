package purge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
	"github.com/lakshaymaurya-felt/dirpurge/internal/plan"
	"github.com/lakshaymaurya-felt/dirpurge/internal/report"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
	"github.com/lakshaymaurya-felt/dirpurge/internal/selection"
)

const mib = 1024 * 1024

func createTestFile(t *testing.T, path string, size int64, modTime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		t.Fatal(err)
	}
	f.Close()
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
}

// projectTree builds root/a/node_modules (5 files, 12 MiB, modified
// yesterday) and root/a/dist/node_modules.
func projectTree(t *testing.T) (root, target string) {
	t.Helper()
	root = t.TempDir()
	yesterday := time.Now().Add(-24 * time.Hour)
	target = filepath.Join(root, "a", "node_modules")
	for i, size := range []int64{4 * mib, 4 * mib, 2 * mib, mib, mib} {
		createTestFile(t, filepath.Join(target, "pkg", string(rune('a'+i))+".bin"), size, yesterday)
	}
	createTestFile(t, filepath.Join(root, "a", "dist", "node_modules", "x.js"), 100, yesterday)
	return root, target
}

func phrase(typed string) selection.Confirmer {
	return selection.ConfirmerFunc(func(string) (string, error) { return typed, nil })
}

func newRunner(t *testing.T, minSizeMiB int64) *Runner {
	t.Helper()
	return &Runner{
		Scan: config.ScanConfig{
			Targets:  []string{"node_modules"},
			Excludes: []string{"dist"},
			MinSize:  minSizeMiB * mib,
		},
		Delete: config.DeletionConfig{
			UseTrash:  true,
			TrashDir:  filepath.Join(t.TempDir(), "trash"),
			BackupDir: filepath.Join(t.TempDir(), "backups"),
		},
		Opts: config.RunConfig{
			Delete:        true,
			ConfirmPhrase: config.DefaultConfirmPhrase,
			Workers:       2,
		},
		Confirmer: phrase("DELETE"),
		Protected: []string{},
	}
}

func TestRunMovesMatchToTrash(t *testing.T) {
	root, target := projectTree(t)
	r := newRunner(t, 10)

	rep, err := r.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(rep.Outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1: %+v", len(rep.Outcomes), rep.Outcomes)
	}
	o := rep.Outcomes[0]
	if o.Candidate.Path != target || o.Status != report.Completed {
		t.Errorf("outcome = %s %s (%s)", o.Candidate.Path, o.Status, o.Error)
	}
	if term, ok := o.Terminal(); !ok || term.Action != plan.MoveToTrash {
		t.Errorf("terminal = %+v", term)
	}
	if o.Candidate.Size != 12*mib || o.Candidate.Files != 5 {
		t.Errorf("candidate size=%d files=%d", o.Candidate.Size, o.Candidate.Files)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("target still present after trash")
	}
	if _, err := os.Stat(filepath.Join(root, "a", "dist", "node_modules")); err != nil {
		t.Error("excluded subtree was touched")
	}
	for _, c := range rep.Candidates {
		if filepath.Base(filepath.Dir(c.Path)) == "dist" {
			t.Errorf("excluded path became a candidate: %s", c.Path)
		}
	}
	if rep.Summary.BytesFreed != 12*mib || rep.Summary.Found != 1 {
		t.Errorf("summary = %+v", rep.Summary)
	}
}

func TestRunBelowMinSizeSelectsNothing(t *testing.T) {
	root, target := projectTree(t)
	r := newRunner(t, 20)

	rep, err := r.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	s := rep.Summary
	if s.Found != 1 || s.Selected != 0 || s.Filtered != 1 || s.Skipped != 1 || s.Completed != 0 {
		t.Errorf("summary = %+v", s)
	}
	if _, err := os.Stat(target); err != nil {
		t.Error("unselected directory was removed")
	}
}

func TestRunConfirmationMismatchAborts(t *testing.T) {
	root, target := projectTree(t)
	r := newRunner(t, 10)
	r.Confirmer = phrase("delete")

	rep, err := r.Run(context.Background(), root)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if !rep.Summary.Aborted || rep.Summary.Completed != 0 || rep.Summary.Selected != 0 {
		t.Errorf("summary = %+v", rep.Summary)
	}
	if _, err := os.Stat(target); err != nil {
		t.Error("directory removed despite aborted confirmation")
	}
}

func TestRunDryRunIsRepeatable(t *testing.T) {
	root, target := projectTree(t)
	r := newRunner(t, 10)
	r.Delete.DryRun = true
	r.Delete.Backup = true
	asked := 0
	r.Confirmer = selection.ConfirmerFunc(func(string) (string, error) {
		asked++
		return "", nil
	})

	first, err := r.Run(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Run(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	if first.Summary != second.Summary {
		t.Errorf("dry-run summaries differ:\n%+v\n%+v", first.Summary, second.Summary)
	}
	if first.Summary.DryRun != 1 || first.Summary.BytesPlanned != 12*mib {
		t.Errorf("summary = %+v", first.Summary)
	}
	if asked != 0 {
		t.Errorf("dry run asked for confirmation %d times", asked)
	}
	if _, err := os.Stat(target); err != nil {
		t.Error("dry run removed the directory")
	}
	if _, err := os.Stat(r.Delete.BackupDir); !os.IsNotExist(err) {
		t.Error("dry run created the backup directory")
	}
}

func TestRunScanOnly(t *testing.T) {
	root, target := projectTree(t)
	r := newRunner(t, 0)
	r.Opts.Delete = false

	rep, err := r.Run(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Mode != report.ModeScan || len(rep.Outcomes) != 0 {
		t.Errorf("mode=%s outcomes=%d", rep.Mode, len(rep.Outcomes))
	}
	if len(rep.Candidates) != 1 || rep.Candidates[0].Path != target {
		t.Errorf("candidates = %+v", rep.Candidates)
	}
}

func TestRunBackupPreflightFailure(t *testing.T) {
	root, target := projectTree(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	r := newRunner(t, 10)
	r.Delete.Backup = true
	r.Delete.BackupDir = filepath.Join(blocker, "backups")

	rep, err := r.Run(context.Background(), root)
	if !errors.Is(err, ErrPreflight) {
		t.Fatalf("err = %v, want ErrPreflight", err)
	}
	if rep.Summary.Completed != 0 || rep.Summary.Skipped != 1 {
		t.Errorf("summary = %+v", rep.Summary)
	}
	if _, err := os.Stat(target); err != nil {
		t.Error("directory removed despite failed preflight")
	}
}

func TestRunBackupThenRemove(t *testing.T) {
	root, target := projectTree(t)
	r := newRunner(t, 10)
	r.Delete.UseTrash = false
	r.Delete.Backup = true

	rep, err := r.Run(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Summary.BytesBackedUp != 12*mib {
		t.Errorf("BytesBackedUp = %d", rep.Summary.BytesBackedUp)
	}
	backups := rep.Backups()
	if len(backups) != 1 {
		t.Fatalf("backups = %v", backups)
	}
	if _, err := os.Stat(filepath.Join(backups[0], "pkg", "a.bin")); err != nil {
		t.Errorf("backup content missing: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("original still present")
	}
}

func TestRunArchiveNamesExhausted(t *testing.T) {
	root, target := projectTree(t)
	r := newRunner(t, 10)
	r.Delete.Archive = true
	if err := os.MkdirAll(r.Delete.BackupDir, 0o755); err != nil {
		t.Fatal(err)
	}

	base := plan.BaseName(scan.Candidate{Path: target, Name: "node_modules"})
	for n := 1; n <= 999; n++ {
		name := base
		if n > 1 {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		if err := os.WriteFile(filepath.Join(r.Delete.BackupDir, name+".zip"), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	rep, err := r.Run(context.Background(), root)
	if !errors.Is(err, ErrPartialFailure) {
		t.Fatalf("err = %v, want ErrPartialFailure", err)
	}
	if len(rep.Outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(rep.Outcomes))
	}
	o := rep.Outcomes[0]
	if o.Status != report.PartiallyFailed || len(o.Steps) != 0 {
		t.Errorf("outcome = %s with %d steps, want partially_failed with none", o.Status, len(o.Steps))
	}
	if !strings.Contains(o.Error, plan.ErrNoFreeName.Error()) {
		t.Errorf("error = %q", o.Error)
	}
	if rep.Summary.PartiallyFailed != 1 || rep.Summary.Skipped != 0 {
		t.Errorf("summary = %+v", rep.Summary)
	}
	if _, err := os.Stat(target); err != nil {
		t.Error("directory removed although its archive could not be planned")
	}
}

func TestRunInvalidRoot(t *testing.T) {
	r := newRunner(t, 0)
	if _, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("missing root: err = %v", err)
	}

	file := filepath.Join(t.TempDir(), "f")
	os.WriteFile(file, nil, 0o644)
	if _, err := r.Run(context.Background(), file); !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("file root: err = %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	root, target := projectTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := newRunner(t, 0).Run(ctx, root)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if !rep.Summary.Cancelled || rep.Summary.Completed != 0 {
		t.Errorf("summary = %+v", rep.Summary)
	}
	if _, err := os.Stat(target); err != nil {
		t.Error("cancelled run removed a directory")
	}
}
