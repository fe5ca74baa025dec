package execution

import (
	"time"

	"github.com/felixgeelhaar/dockhand/internal/domain/step"
)

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	stepID   step.ID
	status   step.Status
	err      error
	duration time.Duration
}

// NewStepResult creates a new StepResult.
func NewStepResult(stepID step.ID, status step.Status, err error) StepResult {
	return StepResult{
		stepID: stepID,
		status: status,
		err:    err,
	}
}

// StepID returns the ID of the step that was executed.
func (r StepResult) StepID() step.ID {
	return r.stepID
}

// Status returns the final status of the step.
func (r StepResult) Status() step.Status {
	return r.status
}

// Error returns any error that occurred during execution.
func (r StepResult) Error() error {
	return r.err
}

// Duration returns how long the step took to execute.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Success returns true if the step completed successfully.
func (r StepResult) Success() bool {
	return r.status == step.StatusSatisfied
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// UnwindOutcome classifies the result of one compensating action.
type UnwindOutcome string

const (
	// OutcomeCompensated means the compensating action succeeded.
	OutcomeCompensated UnwindOutcome = "compensated"
	// OutcomeCannotUndo means the step defines no compensating action.
	// Recorded explicitly so an unwound run never masks leftover state.
	OutcomeCannotUndo UnwindOutcome = "cannot-undo"
	// OutcomeFailed means the compensating action itself failed. The
	// unwind continues with the remaining steps regardless.
	OutcomeFailed UnwindOutcome = "failed"
)

// UnwindResult captures the outcome of compensating a single completed step.
type UnwindResult struct {
	StepID   step.ID
	Outcome  UnwindOutcome
	Err      error
	Duration time.Duration
}

// RunReport is the terminal result of a run, returned to the single
// top-level caller that decides the process exit status. Domain code never
// terminates the process itself.
type RunReport struct {
	Results       []StepResult
	UnwindResults []UnwindResult
	Unwound       bool
}

// Failed returns true if any step failed and the run was unwound.
func (r RunReport) Failed() bool {
	for _, res := range r.Results {
		if res.Status() == step.StatusFailed {
			return true
		}
	}
	return false
}

// FailedStep returns the result of the step that failed, or nil.
// At most one step can fail per run; failure stops forward execution.
func (r RunReport) FailedStep() *StepResult {
	for i := range r.Results {
		if r.Results[i].Status() == step.StatusFailed {
			return &r.Results[i]
		}
	}
	return nil
}

// Completed returns the IDs of steps whose forward action succeeded, in
// execution order.
func (r RunReport) Completed() []step.ID {
	ids := make([]step.ID, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Success() {
			ids = append(ids, res.StepID())
		}
	}
	return ids
}
