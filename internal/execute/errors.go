package execute

import (
	"errors"
	"fmt"

	"github.com/lakshaymaurya-felt/dirpurge/internal/plan"
)

var (
	// ErrStale is returned when a candidate vanished or changed type
	// between discovery and execution.
	ErrStale = errors.New("candidate changed since scan")
	// ErrCancelled marks steps not run because the run was interrupted.
	ErrCancelled = errors.New("run cancelled")
)

// StepError is the failure of one planned action.
type StepError struct {
	Action plan.Action
	Path   string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Path, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
