// Package selection reduces scan candidates to the set that will be acted
// on: size/age thresholds, optional per-directory decisions, and the global
// confirmation phrase.
package selection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
)

// Decision is the answer of a Decider for one candidate.
type Decision int

const (
	// Keep drops the candidate from the deletion set.
	Keep Decision = iota
	// Delete keeps the candidate in the deletion set.
	Delete
)

// Decider answers keep/delete for one candidate. It is called once per
// candidate that passed the thresholds, in discovery order.
type Decider interface {
	Decide(c scan.Candidate) (Decision, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(c scan.Candidate) (Decision, error)

// Decide calls f(c).
func (f DeciderFunc) Decide(c scan.Candidate) (Decision, error) { return f(c) }

// Confirmer asks for the confirmation phrase and returns what was typed.
// The gate does the comparison, so a lenient provider cannot weaken it.
type Confirmer interface {
	Confirm(expected string) (string, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(expected string) (string, error)

// Confirm calls f(expected).
func (f ConfirmerFunc) Confirm(expected string) (string, error) { return f(expected) }

// Reason says why a candidate was dropped.
type Reason string

const (
	ReasonBelowMinSize Reason = "below_min_size"
	ReasonBelowMinAge  Reason = "below_min_age"
	ReasonKeptByUser   Reason = "kept_by_user"
	ReasonDecideFailed Reason = "decision_failed"
)

// Dropped is a candidate removed by the gate, with the reason.
type Dropped struct {
	Candidate scan.Candidate
	Reason    Reason
	Detail    string
}

// Result is the outcome of a gate pass. When Aborted is set (confirmation
// mismatch or cancellation) Selected is empty and the would-be selection
// is kept in Withheld for reporting only.
type Result struct {
	Selected    []scan.Candidate
	Dropped     []Dropped
	Aborted     bool
	AbortReason string
	Withheld    []scan.Candidate
}

// Gate applies the selection policy. Its zero value keeps everything and
// asks nothing.
type Gate struct {
	MinSize int64
	MinAge  time.Duration

	Interactive bool
	Decider     Decider

	RequireConfirm bool
	Phrase         string
	Confirmer      Confirmer
}

// NewGate builds the gate for a resolved configuration. Confirmation is
// required for real deletions unless --yes was given; dry runs mutate
// nothing and skip it.
func NewGate(sc config.ScanConfig, del config.DeletionConfig, run config.RunConfig, d Decider, c Confirmer) *Gate {
	return &Gate{
		MinSize:        sc.MinSize,
		MinAge:         sc.MinAge,
		Interactive:    run.Interactive,
		Decider:        d,
		RequireConfirm: run.Delete && !del.DryRun && !run.Yes,
		Phrase:         run.ConfirmPhrase,
		Confirmer:      c,
	}
}

// Select runs the single-pass filter over cands. A dropped candidate is
// never reconsidered.
func (g *Gate) Select(ctx context.Context, cands []scan.Candidate) Result {
	var res Result

	for _, c := range cands {
		if reason, detail, ok := g.meetsThresholds(c); !ok {
			res.Dropped = append(res.Dropped, Dropped{Candidate: c, Reason: reason, Detail: detail})
			continue
		}
		res.Selected = append(res.Selected, c)
	}

	if g.Interactive && len(res.Selected) > 0 {
		var kept []scan.Candidate
		for _, c := range res.Selected {
			if err := ctx.Err(); err != nil {
				return abort(res, "cancelled during selection")
			}
			if g.Decider == nil {
				return abort(res, "interactive selection requested but no decision provider is available")
			}
			d, err := g.Decider.Decide(c)
			switch {
			case err != nil:
				res.Dropped = append(res.Dropped, Dropped{Candidate: c, Reason: ReasonDecideFailed, Detail: err.Error()})
			case d == Delete:
				kept = append(kept, c)
			default:
				res.Dropped = append(res.Dropped, Dropped{Candidate: c, Reason: ReasonKeptByUser})
			}
		}
		res.Selected = kept
	}

	if g.RequireConfirm && len(res.Selected) > 0 {
		if g.Confirmer == nil {
			return abort(res, "confirmation required but no confirmation provider is available")
		}
		typed, err := g.Confirmer.Confirm(g.Phrase)
		if err != nil {
			return abort(res, fmt.Sprintf("confirmation failed: %v", err))
		}
		if strings.TrimSpace(typed) != g.Phrase {
			return abort(res, "confirmation phrase did not match")
		}
	}

	return res
}

// meetsThresholds applies the inclusive lower bounds. A candidate whose age
// was not computed cannot prove it is old enough.
func (g *Gate) meetsThresholds(c scan.Candidate) (Reason, string, bool) {
	if g.MinSize > 0 && c.Size < g.MinSize {
		return ReasonBelowMinSize, fmt.Sprintf("%s < %s", core.FormatSize(c.Size), core.FormatSize(g.MinSize)), false
	}
	if g.MinAge > 0 && (!c.AgeKnown || c.Age < g.MinAge) {
		return ReasonBelowMinAge, fmt.Sprintf("%s < %s", c.Age.Truncate(time.Second), g.MinAge), false
	}
	return "", "", true
}

func abort(res Result, reason string) Result {
	res.Aborted = true
	res.AbortReason = reason
	res.Withheld = res.Selected
	res.Selected = nil
	return res
}
