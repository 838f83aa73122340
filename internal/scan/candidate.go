package scan

import (
	"fmt"
	"time"
)

// Match is a directory whose name matched the target set, before any
// size or age has been computed.
type Match struct {
	Path     string    // absolute path as discovered under the root
	RealPath string    // resolved path when reached through a symlink
	Name     string    // base name
	Depth    int       // root = 0, its children = 1
	ModTime  time.Time // the directory's own modification time
}

// Target returns the path filesystem actions should operate on.
func (m Match) Target() string {
	if m.RealPath != "" {
		return m.RealPath
	}
	return m.Path
}

// Candidate is a matched directory decorated with its size and age. It is
// immutable once produced.
type Candidate struct {
	Path     string    `json:"path"`
	RealPath string    `json:"real_path,omitempty"`
	Name     string    `json:"name"`
	Depth    int       `json:"depth"`
	Size     int64     `json:"size_bytes"`
	Files    int       `json:"item_count"`
	ModTime  time.Time `json:"mod_time"`

	// Age is only meaningful when AgeKnown is set; it is computed only
	// when a minimum age filter is configured.
	Age      time.Duration `json:"-"`
	AgeKnown bool          `json:"-"`

	// PartialSize is set when some sub-entries could not be read and
	// Size is therefore a lower bound.
	PartialSize bool `json:"partial_size,omitempty"`
}

// Target returns the path filesystem actions should operate on.
func (c Candidate) Target() string {
	if c.RealPath != "" {
		return c.RealPath
	}
	return c.Path
}

// AgeDays returns the age in whole days, and false when it was not computed.
func (c Candidate) AgeDays() (int, bool) {
	if !c.AgeKnown {
		return 0, false
	}
	return int(c.Age / (24 * time.Hour)), true
}

// Warning is a scan-level error: an entry that could not be read. The
// affected subtree is skipped and the scan continues.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("cannot read %s: %v", w.Path, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}
