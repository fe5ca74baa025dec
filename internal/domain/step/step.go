package step

import "context"

// Step represents one idempotent unit of forward setup work.
// Check inspects current host state so re-running a completed install is
// safe; Apply performs the external action.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() ID

	// Check determines the current status of this step.
	// Returns StatusSatisfied if no action is needed, StatusNeedsApply if
	// the step must run.
	Check(ctx context.Context) (Status, error)

	// Apply executes the step's changes.
	Apply(ctx context.Context) error
}

// Rollbackable extends Step with a compensating action. Steps that do not
// implement this interface cannot be undone; the unwind records that
// explicitly rather than skipping them.
type Rollbackable interface {
	Step

	// Rollback undoes the changes made by Apply. It must be idempotent:
	// rolling back state that is already gone is a no-op.
	Rollback(ctx context.Context) error
}

// AsRollbackable attempts to cast a step to Rollbackable.
// Returns nil if the step has no compensating action.
func AsRollbackable(s Step) Rollbackable {
	if r, ok := s.(Rollbackable); ok {
		return r
	}
	return nil
}
