package report

import (
	"errors"
	"sync"
)

// ErrFinalized is returned when outcomes are added after Finalize.
var ErrFinalized = errors.New("report already finalized")

// RunSummary holds the deterministic totals of a run. It carries no times
// or identifiers, so two identical dry runs produce equal summaries.
type RunSummary struct {
	Found    int `json:"found"`
	Selected int `json:"selected"`
	Filtered int `json:"filtered"`

	Completed       int `json:"completed"`
	PartiallyFailed int `json:"partially_failed"`
	Skipped         int `json:"skipped"`
	DryRun          int `json:"dry_run"`

	BytesFound    int64 `json:"bytes_found"`
	BytesFreed    int64 `json:"bytes_freed"`
	BytesPlanned  int64 `json:"bytes_planned"`
	BytesBackedUp int64 `json:"bytes_backed_up"`

	Aborted   bool `json:"aborted,omitempty"`
	Cancelled bool `json:"cancelled,omitempty"`
}

// Aggregator accumulates outcomes. It is safe for concurrent use; the
// summary is only readable through Finalize.
type Aggregator struct {
	mu        sync.Mutex
	summary   RunSummary
	outcomes  []Outcome
	finalized bool
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Found records the candidates produced by the scan.
func (a *Aggregator) Found(n int, bytes int64) error {
	return a.update(func(s *RunSummary) {
		s.Found += n
		s.BytesFound += bytes
	})
}

// Selection records how many candidates passed the gate and how many it
// dropped.
func (a *Aggregator) Selection(selected, filtered int) error {
	return a.update(func(s *RunSummary) {
		s.Selected += selected
		s.Filtered += filtered
	})
}

// Abort marks the run as aborted at the selection gate.
func (a *Aggregator) Abort() error {
	return a.update(func(s *RunSummary) { s.Aborted = true })
}

// Cancel marks the run as interrupted.
func (a *Aggregator) Cancel() error {
	return a.update(func(s *RunSummary) { s.Cancelled = true })
}

// Add appends one outcome.
func (a *Aggregator) Add(o Outcome) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finalized {
		return ErrFinalized
	}

	a.outcomes = append(a.outcomes, o)
	switch o.Status {
	case Completed:
		a.summary.Completed++
	case PartiallyFailed:
		a.summary.PartiallyFailed++
	case Skipped:
		a.summary.Skipped++
	case DryRun:
		a.summary.DryRun++
		a.summary.BytesPlanned += o.Candidate.Size
	}
	a.summary.BytesFreed += o.BytesFreed()
	for _, s := range o.Steps {
		if s.Status == StepOK && !s.Action.Terminal() {
			a.summary.BytesBackedUp += s.Bytes
		}
	}
	return nil
}

// Finalize closes the aggregator and returns the summary and the outcomes
// in the order they were added. Calling it again returns the same values.
func (a *Aggregator) Finalize() (RunSummary, []Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finalized = true
	out := make([]Outcome, len(a.outcomes))
	copy(out, a.outcomes)
	return a.summary, out
}

func (a *Aggregator) update(fn func(*RunSummary)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finalized {
		return ErrFinalized
	}
	fn(&a.summary)
	return nil
}
