package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
)

// Mode is what a run was allowed to do.
type Mode string

const (
	ModeScan   Mode = "scan"
	ModeDryRun Mode = "dry_run"
	ModeDelete Mode = "delete"
)

// Report wraps the deterministic summary with the metadata of one run.
type Report struct {
	RunID      string    `json:"run_id"`
	Root       string    `json:"root"`
	Mode       Mode      `json:"mode"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary  RunSummary `json:"summary"`
	Outcomes []Outcome  `json:"outcomes,omitempty"`

	// Candidates are the directories that passed the size and age
	// thresholds, in discovery order.
	Candidates []scan.Candidate `json:"-"`

	Warnings    []string        `json:"warnings,omitempty"`
	AbortReason string          `json:"abort_reason,omitempty"`
	DiskBefore  *core.DiskUsage `json:"disk_before,omitempty"`
	DiskAfter   *core.DiskUsage `json:"disk_after,omitempty"`
}

// New starts a report for a run over root.
func New(root string, mode Mode) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Root:      root,
		Mode:      mode,
		StartedAt: time.Now(),
	}
}

// Finish stamps the end time and stores the finalized aggregation.
func (r *Report) Finish(summary RunSummary, outcomes []Outcome) {
	r.Summary = summary
	r.Outcomes = outcomes
	r.FinishedAt = time.Now()
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Backups lists the completed backup and archive artifacts.
func (r *Report) Backups() []string {
	var out []string
	for _, o := range r.Outcomes {
		out = append(out, o.Artifacts()...)
	}
	return out
}

// Failures returns the outcomes that did not fully succeed.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == PartiallyFailed {
			out = append(out, o)
		}
	}
	return out
}
