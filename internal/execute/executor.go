// Package execute carries out action plans: backup, archive, trash and
// permanent removal, in that order, never disposing of a directory whose
// preservation steps failed.
package execute

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/logging"
	"github.com/lakshaymaurya-felt/dirpurge/internal/plan"
	"github.com/lakshaymaurya-felt/dirpurge/internal/report"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
)

// Executor runs action plans one candidate at a time.
type Executor struct {
	cfg    config.DeletionConfig
	trash  Trash
	logger *slog.Logger
}

// NewExecutor creates an executor. trash may be nil when no plan will
// contain MoveToTrash.
func NewExecutor(cfg config.DeletionConfig, trash Trash, logger *slog.Logger) *Executor {
	return &Executor{cfg: cfg, trash: trash, logger: logging.OrDiscard(logger)}
}

// Execute performs p and returns its outcome. Steps run in order; the first
// failure stops the plan and the terminal action is then never attempted.
// Cancellation is honoured between steps.
func (e *Executor) Execute(ctx context.Context, p plan.ActionPlan) report.Outcome {
	c := p.Candidate
	log := e.logger.With("path", c.Path)

	if err := checkFresh(c); err != nil {
		log.Warn("candidate changed since scan", "error", err)
		return failFirst(c, p.Steps, &StepError{Action: p.Steps[0].Action, Path: c.Path, Err: err})
	}

	if p.DryRun || e.cfg.DryRun {
		steps := make([]report.StepRecord, len(p.Steps))
		for i, s := range p.Steps {
			steps[i] = report.StepRecord{Action: s.Action, Status: report.StepDryRun, Artifact: s.Target}
		}
		log.Info("dry run", "size", core.FormatSize(c.Size), "actions", len(steps))
		return report.Outcome{Candidate: c, Steps: steps, Status: report.DryRun}
	}

	var steps []report.StepRecord
	for i, s := range p.Steps {
		if err := ctx.Err(); err != nil {
			log.Warn("cancelled before step", "action", s.Action)
			return finish(c, steps, p.Steps[i:], &StepError{Action: s.Action, Path: c.Path, Err: ErrCancelled})
		}
		if s.Action.Terminal() {
			if err := checkFresh(c); err != nil {
				log.Warn("candidate changed before disposal", "error", err)
				rec := report.StepRecord{Action: s.Action, Status: report.StepFailed, Error: err.Error()}
				return finish(c, append(steps, rec), nil, &StepError{Action: s.Action, Path: c.Path, Err: err})
			}
		}

		rec, err := e.run(s, c)
		steps = append(steps, rec)
		if err != nil {
			serr := &StepError{Action: s.Action, Path: c.Path, Err: err}
			log.Error("step failed", "action", s.Action, "error", err)
			return finish(c, steps, p.Steps[i+1:], serr)
		}
		log.Debug("step done", "action", s.Action, "artifact", rec.Artifact, "bytes", rec.Bytes)
	}

	log.Info("purged", "size", core.FormatSize(c.Size), "action", p.Terminal().Action)
	return report.Outcome{Candidate: c, Steps: steps, Status: report.Completed}
}

func (e *Executor) run(s plan.Step, c scan.Candidate) (report.StepRecord, error) {
	rec := report.StepRecord{Action: s.Action, Artifact: s.Target}
	src := c.Target()

	var err error
	switch s.Action {
	case plan.Backup:
		rec.Bytes, rec.Artifact, err = preserve(s.Target, func(partial string) (int64, error) {
			return copyTree(src, partial)
		})
	case plan.Archive:
		rec.Bytes, rec.Artifact, err = preserve(s.Target, func(partial string) (int64, error) {
			return archiveTree(src, partial, c.Name)
		})
	case plan.MoveToTrash:
		if e.trash == nil {
			err = fmt.Errorf("no trash configured")
			break
		}
		rec.Artifact, err = e.trash.Put(src)
	case plan.Remove:
		err = os.RemoveAll(src)
	default:
		err = fmt.Errorf("unknown action %q", s.Action)
	}

	if err != nil {
		rec.Status = report.StepFailed
		rec.Error = err.Error()
		return rec, err
	}
	rec.Status = report.StepOK
	return rec, nil
}

// preserve writes a backup or archive through a .partial path and renames
// it into place only once complete. A failed write leaves the partial path,
// which is returned as the artifact.
func preserve(target string, write func(partial string) (int64, error)) (int64, string, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, "", fmt.Errorf("create backup directory: %w", err)
	}
	partial := target + plan.PartialSuffix
	n, err := write(partial)
	if err != nil {
		return n, partial, err
	}
	if err := os.Rename(partial, target); err != nil {
		return n, partial, fmt.Errorf("finalize %s: %w", target, err)
	}
	return n, target, nil
}

// checkFresh verifies the candidate is still a real directory.
func checkFresh(c scan.Candidate) error {
	info, err := os.Lstat(c.Target())
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: no longer exists", ErrStale)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: no longer a directory", ErrStale)
	}
	return nil
}

// finish builds a PartiallyFailed outcome from the records so far, marking
// the remaining steps as not run.
func finish(c scan.Candidate, done []report.StepRecord, rest []plan.Step, cause error) report.Outcome {
	steps := append([]report.StepRecord(nil), done...)
	for _, s := range rest {
		steps = append(steps, report.StepRecord{Action: s.Action, Status: report.StepNotRun, Artifact: s.Target})
	}
	return report.Outcome{Candidate: c, Steps: steps, Status: report.PartiallyFailed, Error: cause.Error()}
}

// failFirst records a failure detected before the first step ran.
func failFirst(c scan.Candidate, planned []plan.Step, cause error) report.Outcome {
	rec := report.StepRecord{Action: planned[0].Action, Status: report.StepFailed, Error: cause.Error()}
	return finish(c, []report.StepRecord{rec}, planned[1:], cause)
}
