// Package purge runs the full pipeline: scan a root, select candidates,
// then plan and execute the deletions and aggregate the outcomes.
package purge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/execute"
	"github.com/lakshaymaurya-felt/dirpurge/internal/logging"
	"github.com/lakshaymaurya-felt/dirpurge/internal/plan"
	"github.com/lakshaymaurya-felt/dirpurge/internal/report"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
	"github.com/lakshaymaurya-felt/dirpurge/internal/selection"
)

var (
	// ErrInvalidRoot is returned when the root is missing or not a directory.
	ErrInvalidRoot = errors.New("invalid root directory")
	// ErrAborted is returned when the selection gate aborted the run.
	ErrAborted = errors.New("run aborted")
	// ErrPreflight is returned when the backup directory is unusable.
	ErrPreflight = errors.New("preflight check failed")
	// ErrPartialFailure is returned when at least one candidate was not
	// fully processed. The report is still complete.
	ErrPartialFailure = errors.New("some directories could not be purged")
)

// Runner holds everything one run needs. Decider and Confirmer are only
// consulted when interactive selection or confirmation is required.
type Runner struct {
	Scan   config.ScanConfig
	Delete config.DeletionConfig
	Opts   config.RunConfig

	Decider   selection.Decider
	Confirmer selection.Confirmer
	Trash     execute.Trash
	Logger    *slog.Logger

	// Protected overrides the never-delete list when non-nil.
	Protected []string
	// Scanned, when set, sees the candidates before any selection or
	// prompt happens.
	Scanned func(cands []scan.Candidate)
	// Progress, when set, is called after each outcome is recorded.
	Progress func(done, total int, o report.Outcome)
}

// Mode returns what the run is allowed to do.
func (r *Runner) Mode() report.Mode {
	switch {
	case !r.Opts.Executes(r.Delete):
		return report.ModeScan
	case r.Delete.DryRun:
		return report.ModeDryRun
	default:
		return report.ModeDelete
	}
}

// Run executes the pipeline over root. The returned report is non-nil
// whenever the root was valid, including on abort and partial failure.
func (r *Runner) Run(ctx context.Context, root string) (*report.Report, error) {
	log := logging.OrDiscard(r.Logger)

	abs := core.AbsClean(root)
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, abs)
	}

	mode := r.Mode()
	rep := report.New(abs, mode)
	agg := report.NewAggregator()
	log = log.With("run_id", rep.RunID)
	log.Info("run started", "root", abs, "mode", mode, "targets", r.Scan.Targets)

	if du, err := core.GetDiskUsage(abs); err == nil {
		rep.DiskBefore = du
	} else {
		log.Debug("disk usage unavailable", "error", err)
	}

	// Scan.
	scanner := scan.NewScanner(r.scanConfig(), r.scanOptions(log)...)
	cands, err := scanner.Collect(ctx, abs, r.Opts.Workers)
	for _, w := range scanner.Warnings() {
		rep.Warnings = append(rep.Warnings, w.Error())
	}
	if err != nil {
		agg.Cancel()
		r.finish(rep, agg, log)
		return rep, err
	}
	var found int64
	for _, c := range cands {
		found += c.Size
	}
	agg.Found(len(cands), found)
	log.Info("scan complete", "found", len(cands), "size", core.FormatSize(found),
		"entries", scanner.ScannedCount(), "warnings", len(rep.Warnings))
	if r.Scanned != nil {
		r.Scanned(cands)
	}

	// Select.
	gate := r.gate(mode)
	res := gate.Select(ctx, cands)
	rep.Candidates = res.Selected
	if res.Aborted {
		rep.Candidates = res.Withheld
	}
	agg.Selection(len(res.Selected), len(res.Dropped))

	if mode == report.ModeScan {
		r.finish(rep, agg, log)
		return rep, nil
	}

	for _, d := range res.Dropped {
		r.record(agg, report.SkippedOutcome(d.Candidate, string(d.Reason)), 0, 0)
	}

	if res.Aborted {
		log.Warn("run aborted", "reason", res.AbortReason)
		agg.Abort()
		for _, c := range res.Withheld {
			r.record(agg, report.SkippedOutcome(c, "aborted"), 0, 0)
		}
		rep.AbortReason = res.AbortReason
		r.finish(rep, agg, log)
		return rep, fmt.Errorf("%w: %s", ErrAborted, res.AbortReason)
	}

	// Preflight.
	if err := r.preflight(res.Selected); err != nil {
		log.Error("preflight failed", "error", err)
		for _, c := range res.Selected {
			r.record(agg, report.SkippedOutcome(c, "preflight failed"), 0, 0)
		}
		rep.AbortReason = err.Error()
		r.finish(rep, agg, log)
		return rep, err
	}

	// Plan and execute, one candidate at a time.
	planner := plan.NewPlanner(r.Delete)
	executor := execute.NewExecutor(r.Delete, r.trash(), log)
	total := len(res.Selected)
	for i, c := range res.Selected {
		if ctx.Err() != nil {
			log.Warn("run cancelled", "remaining", total-i)
			agg.Cancel()
			for _, rest := range res.Selected[i:] {
				r.record(agg, report.SkippedOutcome(rest, "cancelled"), i, total)
			}
			break
		}

		ap, err := planner.Plan(c)
		if err != nil {
			log.Error("planning failed", "path", c.Path, "error", err)
			r.record(agg, report.PlanningFailedOutcome(c, err), i+1, total)
			continue
		}
		r.record(agg, executor.Execute(ctx, ap), i+1, total)
	}

	r.finish(rep, agg, log)

	switch {
	case rep.Summary.Cancelled:
		return rep, ctx.Err()
	case rep.Summary.PartiallyFailed > 0:
		return rep, ErrPartialFailure
	}
	return rep, nil
}

// scanConfig prunes the backup and trash directories from the walk so a
// run never picks up its own artifacts.
func (r *Runner) scanConfig() config.ScanConfig {
	sc := r.Scan
	sc.SkipPaths = append([]string(nil), sc.SkipPaths...)
	if r.Delete.NeedsBackupDir() {
		sc.SkipPaths = append(sc.SkipPaths, r.backupDir())
	}
	if r.Delete.UseTrash {
		if dt, ok := r.trash().(*execute.DirTrash); ok {
			sc.SkipPaths = append(sc.SkipPaths, dt.Root)
		}
	}
	return sc
}

func (r *Runner) scanOptions(log *slog.Logger) []scan.Option {
	opts := []scan.Option{scan.WithLogger(log)}
	if r.Protected != nil {
		opts = append(opts, scan.WithProtectedPaths(r.Protected))
	}
	return opts
}

// gate builds the selection gate. Scan-only runs apply the thresholds but
// never ask anything.
func (r *Runner) gate(mode report.Mode) *selection.Gate {
	if mode == report.ModeScan {
		return &selection.Gate{MinSize: r.Scan.MinSize, MinAge: r.Scan.MinAge}
	}
	return selection.NewGate(r.Scan, r.Delete, r.Opts, r.Decider, r.Confirmer)
}

func (r *Runner) trash() execute.Trash {
	if r.Trash == nil && r.Delete.UseTrash {
		r.Trash = execute.NewTrash(r.Delete.TrashDir)
	}
	return r.Trash
}

func (r *Runner) backupDir() string {
	if r.Delete.BackupDir == "" {
		return core.AbsClean(config.DefaultBackupDir)
	}
	return core.AbsClean(r.Delete.BackupDir)
}

func (r *Runner) record(agg *report.Aggregator, o report.Outcome, done, total int) {
	agg.Add(o)
	if r.Progress != nil && total > 0 {
		r.Progress(done, total, o)
	}
}

func (r *Runner) finish(rep *report.Report, agg *report.Aggregator, log *slog.Logger) {
	if rep.Mode == report.ModeDelete {
		if du, err := core.GetDiskUsage(rep.Root); err == nil {
			rep.DiskAfter = du
		}
	}
	rep.Finish(agg.Finalize())
	s := rep.Summary
	log.Info("run finished",
		"found", s.Found,
		"selected", s.Selected,
		"completed", s.Completed,
		"failed", s.PartiallyFailed,
		"skipped", s.Skipped,
		"freed", core.FormatSize(s.BytesFreed),
		"duration", rep.Duration())
}
