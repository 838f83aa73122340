package selection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
)

const mb = 1024 * 1024

func cand(path string, size int64, age time.Duration) scan.Candidate {
	return scan.Candidate{Path: path, Name: "node_modules", Size: size, Age: age, AgeKnown: true}
}

// scriptedDecider answers from a fixed list and records the call order.
type scriptedDecider struct {
	answers []Decision
	calls   []string
}

func (s *scriptedDecider) Decide(c scan.Candidate) (Decision, error) {
	s.calls = append(s.calls, c.Path)
	if len(s.answers) == 0 {
		return Keep, errors.New("script exhausted")
	}
	d := s.answers[0]
	s.answers = s.answers[1:]
	return d, nil
}

// countingConfirmer types a fixed phrase and counts calls.
type countingConfirmer struct {
	typed string
	calls int
}

func (c *countingConfirmer) Confirm(string) (string, error) {
	c.calls++
	return c.typed, nil
}

func TestThresholdsAreInclusive(t *testing.T) {
	g := &Gate{MinSize: 10 * mb, MinAge: 24 * time.Hour}
	res := g.Select(context.Background(), []scan.Candidate{
		cand("exact", 10*mb, 24*time.Hour),
		cand("small", 10*mb-1, 48*time.Hour),
		cand("young", 20*mb, 23*time.Hour),
		cand("big", 12*mb, 25*time.Hour),
	})

	if len(res.Selected) != 2 || res.Selected[0].Path != "exact" || res.Selected[1].Path != "big" {
		t.Errorf("Selected = %v", res.Selected)
	}
	if len(res.Dropped) != 2 {
		t.Fatalf("Dropped = %v", res.Dropped)
	}
	if res.Dropped[0].Reason != ReasonBelowMinSize || res.Dropped[1].Reason != ReasonBelowMinAge {
		t.Errorf("reasons = %s, %s", res.Dropped[0].Reason, res.Dropped[1].Reason)
	}
}

func TestUnknownAgeFailsMinAge(t *testing.T) {
	g := &Gate{MinAge: time.Hour}
	res := g.Select(context.Background(), []scan.Candidate{{Path: "p", Size: 1}})
	if len(res.Selected) != 0 {
		t.Error("candidate with unknown age should not pass a min-age filter")
	}
}

func TestInteractiveDecisionsInOrder(t *testing.T) {
	d := &scriptedDecider{answers: []Decision{Delete, Keep, Delete}}
	g := &Gate{MinSize: 5, Interactive: true, Decider: d}

	res := g.Select(context.Background(), []scan.Candidate{
		cand("a", 10, 0),
		cand("tiny", 1, 0), // filtered before the decider sees it
		cand("b", 10, 0),
		cand("c", 10, 0),
	})

	wantCalls := []string{"a", "b", "c"}
	if len(d.calls) != len(wantCalls) {
		t.Fatalf("calls = %v, want %v", d.calls, wantCalls)
	}
	for i := range wantCalls {
		if d.calls[i] != wantCalls[i] {
			t.Errorf("call %d = %s, want %s", i, d.calls[i], wantCalls[i])
		}
	}
	if len(res.Selected) != 2 || res.Selected[0].Path != "a" || res.Selected[1].Path != "c" {
		t.Errorf("Selected = %v", res.Selected)
	}
}

func TestConfirmationMismatchAbortsRun(t *testing.T) {
	conf := &countingConfirmer{typed: "delete"}
	g := &Gate{RequireConfirm: true, Phrase: "DELETE", Confirmer: conf}

	res := g.Select(context.Background(), []scan.Candidate{cand("a", 1, 0), cand("b", 1, 0)})
	if !res.Aborted {
		t.Fatal("case-mismatched phrase must abort")
	}
	if len(res.Selected) != 0 {
		t.Errorf("Selected = %v, want none", res.Selected)
	}
	if len(res.Withheld) != 2 {
		t.Errorf("Withheld = %v", res.Withheld)
	}
	if conf.calls != 1 {
		t.Errorf("Confirm called %d times, want 1", conf.calls)
	}
}

func TestConfirmationMatch(t *testing.T) {
	conf := &countingConfirmer{typed: "  DELETE\n"}
	g := &Gate{RequireConfirm: true, Phrase: "DELETE", Confirmer: conf}

	res := g.Select(context.Background(), []scan.Candidate{cand("a", 1, 0)})
	if res.Aborted || len(res.Selected) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestConfirmationNotAskedWhenNothingSurvives(t *testing.T) {
	conf := &countingConfirmer{typed: "DELETE"}
	g := &Gate{MinSize: 100, RequireConfirm: true, Phrase: "DELETE", Confirmer: conf}

	res := g.Select(context.Background(), []scan.Candidate{cand("a", 1, 0)})
	if conf.calls != 0 {
		t.Errorf("Confirm called %d times, want 0", conf.calls)
	}
	if res.Aborted {
		t.Error("nothing to confirm should not abort")
	}
}

func TestMissingConfirmerFailsClosed(t *testing.T) {
	g := &Gate{RequireConfirm: true, Phrase: "DELETE"}
	if res := g.Select(context.Background(), []scan.Candidate{cand("a", 1, 0)}); !res.Aborted {
		t.Error("missing confirmer must abort")
	}
}

func TestNewGateConfirmationRules(t *testing.T) {
	tests := []struct {
		name string
		del  config.DeletionConfig
		run  config.RunConfig
		want bool
	}{
		{"delete", config.DeletionConfig{}, config.RunConfig{Delete: true}, true},
		{"delete yes", config.DeletionConfig{}, config.RunConfig{Delete: true, Yes: true}, false},
		{"dry run", config.DeletionConfig{DryRun: true}, config.RunConfig{Delete: true}, false},
		{"scan only", config.DeletionConfig{}, config.RunConfig{}, false},
	}
	for _, tt := range tests {
		g := NewGate(config.ScanConfig{}, tt.del, tt.run, nil, nil)
		if g.RequireConfirm != tt.want {
			t.Errorf("%s: RequireConfirm = %v, want %v", tt.name, g.RequireConfirm, tt.want)
		}
	}
}
