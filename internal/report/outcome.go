// Package report records what happened to each candidate and aggregates it
// into the run summary and exported reports.
package report

import (
	"github.com/lakshaymaurya-felt/dirpurge/internal/plan"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
)

// Status is the final status of one candidate.
type Status string

const (
	Completed       Status = "completed"
	PartiallyFailed Status = "partially_failed"
	Skipped         Status = "skipped"
	DryRun          Status = "dry_run"
)

// StepStatus is the result of one planned action.
type StepStatus string

const (
	StepOK     StepStatus = "ok"
	StepFailed StepStatus = "failed"
	StepDryRun StepStatus = "dry_run"
	// StepNotRun marks an action that was not attempted because an
	// earlier one failed.
	StepNotRun StepStatus = "not_run"
)

// StepRecord is the record of one action.
type StepRecord struct {
	Action   plan.Action `json:"action"`
	Status   StepStatus  `json:"status"`
	Artifact string      `json:"artifact,omitempty"`
	Bytes    int64       `json:"bytes,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Outcome is the final record for one candidate. Build it with the
// constructors or the executor and do not modify it afterwards.
type Outcome struct {
	Candidate scan.Candidate `json:"candidate"`
	Steps     []StepRecord   `json:"steps,omitempty"`
	Status    Status         `json:"status"`
	Error     string         `json:"error,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// SkippedOutcome records a candidate that no action was attempted on.
func SkippedOutcome(c scan.Candidate, reason string) Outcome {
	return Outcome{Candidate: c, Status: Skipped, Reason: reason}
}

// PlanningFailedOutcome records a candidate that could not be planned. No
// step ran, but the requested preservation or disposal did not happen,
// so the candidate counts as partially failed.
func PlanningFailedOutcome(c scan.Candidate, err error) Outcome {
	return Outcome{Candidate: c, Status: PartiallyFailed, Error: err.Error(), Reason: "planning failed"}
}

// Terminal returns the record of the terminal action, if any.
func (o Outcome) Terminal() (StepRecord, bool) {
	if len(o.Steps) == 0 {
		return StepRecord{}, false
	}
	last := o.Steps[len(o.Steps)-1]
	return last, last.Action.Terminal()
}

// BytesFreed is the candidate size when the original was disposed of.
func (o Outcome) BytesFreed() int64 {
	if o.Status != Completed {
		return 0
	}
	return o.Candidate.Size
}

// Artifacts returns the backup and archive paths that were completed.
func (o Outcome) Artifacts() []string {
	var out []string
	for _, s := range o.Steps {
		if s.Artifact != "" && s.Status == StepOK && !s.Action.Terminal() {
			out = append(out, s.Artifact)
		}
	}
	return out
}
