// Package execution runs the ordered installation sequence and owns the
// compensating-action unwind over completed steps.
package execution

import (
	"github.com/felixgeelhaar/dockhand/internal/domain/step"
)

// Plan is the fixed, ordered list of steps for a run. Order is execution
// order; reverse order is unwind order.
type Plan struct {
	steps []step.Step
}

// NewPlan creates an empty Plan.
func NewPlan() *Plan {
	return &Plan{
		steps: make([]step.Step, 0),
	}
}

// Add appends a step to the end of the plan.
func (p *Plan) Add(s step.Step) {
	p.steps = append(p.steps, s)
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	return len(p.steps)
}

// IsEmpty returns true if there are no steps.
func (p *Plan) IsEmpty() bool {
	return len(p.steps) == 0
}

// Steps returns all steps in execution order.
func (p *Plan) Steps() []step.Step {
	return p.steps
}
