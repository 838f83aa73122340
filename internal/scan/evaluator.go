package scan

import (
	"io/fs"
	"path/filepath"
	"time"
)

// Metrics is the result of measuring one directory tree.
type Metrics struct {
	Size      int64
	Files     int
	Partial   bool
	NewestMod time.Time
}

// Evaluator computes directory sizes and ages.
type Evaluator struct {
	ageFromContents bool
	now             func() time.Time
}

// NewEvaluator creates an evaluator. With ageFromContents set, a
// directory's age is measured from the newest modification among itself and
// everything beneath it rather than from its own mtime alone.
func NewEvaluator(ageFromContents bool) *Evaluator {
	return &Evaluator{ageFromContents: ageFromContents, now: time.Now}
}

// WithClock returns a copy of e that reads the current time from now.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	c := *e
	c.now = now
	return &c
}

// Measure sums the sizes of regular files under root. Symlinks are neither
// followed nor counted. Unreadable entries are left out and flag the result
// as partial. Modification times are tracked only when trackMod is set.
func (e *Evaluator) Measure(root string, trackMod bool) Metrics {
	var m Metrics
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// For a directory this is the ReadDir failure; WalkDir skips it.
			m.Partial = true
			return nil
		}

		if !d.Type().IsRegular() && !d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			m.Partial = true
			return nil
		}
		if trackMod && path != root && info.ModTime().After(m.NewestMod) {
			m.NewestMod = info.ModTime()
		}
		if d.Type().IsRegular() {
			m.Size += info.Size()
			m.Files++
		}
		return nil
	})
	return m
}

// Evaluate turns a match into a candidate. Age is computed only when
// withAge is set, so unfiltered runs never pay for it.
func (e *Evaluator) Evaluate(match Match, withAge bool) Candidate {
	metrics := e.Measure(match.Target(), withAge && e.ageFromContents)

	c := Candidate{
		Path:        match.Path,
		RealPath:    match.RealPath,
		Name:        match.Name,
		Depth:       match.Depth,
		Size:        metrics.Size,
		Files:       metrics.Files,
		ModTime:     match.ModTime,
		PartialSize: metrics.Partial,
	}

	if withAge {
		newest := match.ModTime
		if e.ageFromContents && metrics.NewestMod.After(newest) {
			newest = metrics.NewestMod
		}
		age := e.now().Sub(newest)
		if age < 0 {
			age = 0
		}
		c.Age = age
		c.AgeKnown = true
	}
	return c
}
