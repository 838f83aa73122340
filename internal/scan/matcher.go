package scan

import "strings"

// Verdict is the result of matching a directory name.
type Verdict int

const (
	// NoMatch means the directory is neither a target nor excluded.
	NoMatch Verdict = iota
	// Excluded means the directory and its whole subtree are pruned.
	Excluded
	// Target means the directory is a candidate.
	Target
)

func (v Verdict) String() string {
	switch v {
	case Excluded:
		return "excluded"
	case Target:
		return "target"
	default:
		return "none"
	}
}

// Matcher decides whether a directory name is a target. It is a pure
// predicate over names; paths never influence the verdict.
type Matcher struct {
	targets  map[string]bool
	excludes map[string]bool
	fold     bool
}

// NewMatcher builds a matcher. With caseInsensitive set, names are compared
// lower-cased (the Windows default).
func NewMatcher(targets, excludes []string, caseInsensitive bool) *Matcher {
	m := &Matcher{
		targets:  make(map[string]bool, len(targets)),
		excludes: make(map[string]bool, len(excludes)),
		fold:     caseInsensitive,
	}
	for _, t := range targets {
		m.targets[m.key(t)] = true
	}
	for _, e := range excludes {
		m.excludes[m.key(e)] = true
	}
	return m
}

func (m *Matcher) key(name string) string {
	if m.fold {
		return strings.ToLower(name)
	}
	return name
}

// Match classifies name. Exclusion takes precedence over targets.
func (m *Matcher) Match(name string) Verdict {
	k := m.key(name)
	if m.excludes[k] {
		return Excluded
	}
	if m.targets[k] {
		return Target
	}
	return NoMatch
}
