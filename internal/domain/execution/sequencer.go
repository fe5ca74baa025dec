package execution

import (
	"context"
	"time"

	"github.com/felixgeelhaar/dockhand/internal/domain/step"
	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// Sequencer executes a plan's steps in order. The first step failure stops
// forward execution and triggers a single unwind of the completed steps in
// reverse order; the sequencer never resumes forward execution afterwards.
type Sequencer struct {
	logger ports.Logger
}

// NewSequencer creates a new Sequencer.
func NewSequencer(logger ports.Logger) *Sequencer {
	return &Sequencer{logger: logger}
}

// runState is the per-run mutable state: the completed-step log, the step
// currently executing, and the unwind latch. It lives for one Run call and
// is never shared.
type runState struct {
	completed []step.Step
	current   step.ID
	unwound   bool
}

// Run executes all steps in order and returns a terminal report.
//
// A step enters the completed-step log iff its forward action returned
// success; a step failing mid-apply is attributed by the current-step
// marker but never marked completed. On failure the completed log is
// unwound in strict reverse insertion order and the remaining plan steps
// are reported as skipped.
func (s *Sequencer) Run(ctx context.Context, plan *Plan) RunReport {
	state := &runState{
		completed: make([]step.Step, 0, plan.Len()),
	}
	results := make([]StepResult, 0, plan.Len())

	for i, st := range plan.Steps() {
		state.current = st.ID()

		select {
		case <-ctx.Done():
			res := NewStepResult(st.ID(), step.StatusFailed, ctx.Err())
			results = append(results, res)
			results = s.skipRemaining(results, plan, i+1)
			return s.unwind(ctx, state, results)
		default:
		}

		res := s.runStep(ctx, st)
		results = append(results, res)

		if res.Status() == step.StatusFailed {
			s.logger.Error(ctx, "step failed",
				ports.F("step", st.ID().String()),
				ports.F("error", res.Error().Error()))
			results = s.skipRemaining(results, plan, i+1)
			return s.unwind(ctx, state, results)
		}

		state.completed = append(state.completed, st)
		s.logger.Info(ctx, "step completed", ports.F("step", st.ID().String()))
	}

	return RunReport{Results: results}
}

// runStep executes a single step: check first, apply only when needed.
func (s *Sequencer) runStep(ctx context.Context, st step.Step) StepResult {
	s.logger.Info(ctx, "step starting", ports.F("step", st.ID().String()))

	status, err := st.Check(ctx)
	if err != nil {
		return NewStepResult(st.ID(), step.StatusFailed, err)
	}

	if status == step.StatusSatisfied {
		s.logger.Debug(ctx, "step already satisfied", ports.F("step", st.ID().String()))
		return NewStepResult(st.ID(), step.StatusSatisfied, nil)
	}

	start := time.Now()
	if err := st.Apply(ctx); err != nil {
		return NewStepResult(st.ID(), step.StatusFailed, err).WithDuration(time.Since(start))
	}

	return NewStepResult(st.ID(), step.StatusSatisfied, nil).WithDuration(time.Since(start))
}

// skipRemaining marks plan steps from index on as skipped.
func (s *Sequencer) skipRemaining(results []StepResult, plan *Plan, from int) []StepResult {
	for _, st := range plan.Steps()[from:] {
		results = append(results, NewStepResult(st.ID(), step.StatusSkipped, nil))
	}
	return results
}

// unwind compensates the completed-step log in strict reverse insertion
// order. Compensation is best-effort: each entry gets exactly one attempt,
// and an individual failure never aborts the rest. The latch guarantees a
// run unwinds at most once.
func (s *Sequencer) unwind(ctx context.Context, state *runState, results []StepResult) RunReport {
	if state.unwound {
		return RunReport{Results: results, Unwound: true}
	}
	state.unwound = true

	s.logger.Warn(ctx, "unwinding completed steps",
		ports.F("failed_step", state.current.String()),
		ports.F("completed", len(state.completed)))

	unwindResults := make([]UnwindResult, 0, len(state.completed))

	for i := len(state.completed) - 1; i >= 0; i-- {
		st := state.completed[i]
		unwindResults = append(unwindResults, s.compensate(ctx, st))
	}

	return RunReport{
		Results:       results,
		UnwindResults: unwindResults,
		Unwound:       true,
	}
}

// compensate attempts the compensating action for one completed step.
func (s *Sequencer) compensate(ctx context.Context, st step.Step) UnwindResult {
	result := UnwindResult{StepID: st.ID()}

	rollbackable := step.AsRollbackable(st)
	if rollbackable == nil {
		// No compensation defined. Said out loud so leftover host state
		// is never masked.
		result.Outcome = OutcomeCannotUndo
		s.logger.Warn(ctx, "cannot undo step, no compensating action",
			ports.F("step", st.ID().String()))
		return result
	}

	s.logger.Info(ctx, "rolling back step", ports.F("step", st.ID().String()))

	start := time.Now()
	err := rollbackable.Rollback(ctx)
	result.Duration = time.Since(start)

	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		s.logger.Error(ctx, "rollback failed, continuing with remaining steps",
			ports.F("step", st.ID().String()),
			ports.F("error", err.Error()))
		return result
	}

	result.Outcome = OutcomeCompensated
	return result
}
