// Package plan turns a selected candidate into the ordered list of actions
// the executor will perform on it.
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
)

// maxSuffix bounds the collision counter appended to backup names.
const maxSuffix = 999

// PartialSuffix is appended to a backup or archive target while it is
// being written.
const PartialSuffix = ".partial"

// ErrNoFreeName is wrapped by PlanningError when every suffixed backup
// name is already taken.
var ErrNoFreeName = errors.New("no free backup name")

// Action is one step of a plan.
type Action string

const (
	Backup      Action = "backup"
	Archive     Action = "archive"
	MoveToTrash Action = "move_to_trash"
	Remove      Action = "remove"
)

// Terminal reports whether the action disposes of the original.
func (a Action) Terminal() bool {
	return a == MoveToTrash || a == Remove
}

// Step is an action and, for backup and archive, its destination.
type Step struct {
	Action Action `json:"action"`
	Target string `json:"target,omitempty"`
}

// ActionPlan is the ordered action list for one candidate. Preservation
// steps come first and exactly one terminal step comes last.
type ActionPlan struct {
	Candidate scan.Candidate
	Steps     []Step
	DryRun    bool
}

// Terminal returns the last step of the plan.
func (p ActionPlan) Terminal() Step {
	return p.Steps[len(p.Steps)-1]
}

// PlanningError reports a candidate that could not be planned. The
// candidate is skipped and no action is taken on it.
type PlanningError struct {
	Path string
	Err  error
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("planning %s: %v", e.Path, e.Err)
}

func (e *PlanningError) Unwrap() error {
	return e.Err
}

// Planner builds action plans. It remembers the names it has handed out so
// two candidates with the same base name never share a backup target.
type Planner struct {
	cfg       config.DeletionConfig
	backupDir string

	mu       sync.Mutex
	reserved map[string]bool
}

// NewPlanner creates a planner for cfg.
func NewPlanner(cfg config.DeletionConfig) *Planner {
	dir := cfg.BackupDir
	if dir == "" {
		dir = config.DefaultBackupDir
	}
	return &Planner{
		cfg:       cfg,
		backupDir: core.AbsClean(dir),
		reserved:  make(map[string]bool),
	}
}

// Plan returns the action plan for c.
func (p *Planner) Plan(c scan.Candidate) (ActionPlan, error) {
	ap := ActionPlan{Candidate: c, DryRun: p.cfg.DryRun}

	if p.cfg.Backup || p.cfg.Archive {
		base := BaseName(c)
		if p.cfg.Backup {
			target, err := p.reserve(base, "")
			if err != nil {
				return ActionPlan{}, &PlanningError{Path: c.Path, Err: err}
			}
			ap.Steps = append(ap.Steps, Step{Action: Backup, Target: target})
		}
		if p.cfg.Archive {
			target, err := p.reserve(base, ".zip")
			if err != nil {
				return ActionPlan{}, &PlanningError{Path: c.Path, Err: err}
			}
			ap.Steps = append(ap.Steps, Step{Action: Archive, Target: target})
		}
	}

	if p.cfg.UseTrash {
		ap.Steps = append(ap.Steps, Step{Action: MoveToTrash})
	} else {
		ap.Steps = append(ap.Steps, Step{Action: Remove})
	}
	return ap, nil
}

// BaseName is the collision-resistant name for c's backups: the directory
// name plus the first eight hex digits of the SHA-256 of its path.
func BaseName(c scan.Candidate) string {
	sum := sha256.Sum256([]byte(c.Path))
	return c.Name + "-" + hex.EncodeToString(sum[:])[:8]
}

func (p *Planner) reserve(base, ext string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for n := 1; n <= maxSuffix; n++ {
		name := base
		if n > 1 {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		target := filepath.Join(p.backupDir, name+ext)
		if p.reserved[target] || exists(target) || exists(target+PartialSuffix) {
			continue
		}
		p.reserved[target] = true
		return target, nil
	}
	return "", fmt.Errorf("%s%s: %w", base, ext, ErrNoFreeName)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
