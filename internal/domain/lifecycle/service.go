package lifecycle

import (
	"context"
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
)

// LifecycleService applies guarded state transitions. Every successful
// transition persists the new state and appends exactly one Event in the
// same transaction.
type LifecycleService interface {
	StartProbation(ctx context.Context, employeeID string, probationEnd time.Time, actorID string) (employee.Employee, error)

	// Confirm moves a probationary or extended employee to Confirmed
	// once the probation end date has passed.
	Confirm(ctx context.Context, employeeID, actorID string) (employee.Employee, error)

	// ExtendProbation pushes the probation end date out. The new date
	// must be after the current one.
	ExtendProbation(ctx context.Context, employeeID string, newEnd time.Time, actorID string) (employee.Employee, error)

	// FailProbation terminates a probationary employee directly.
	FailProbation(ctx context.Context, employeeID, actorID, reason string) (employee.Employee, error)

	Suspend(ctx context.Context, employeeID string, until *time.Time, actorID, reason string) (employee.Employee, error)

	// Reactivate returns a suspended or inactive employee to Confirmed.
	Reactivate(ctx context.Context, employeeID, actorID string) (employee.Employee, error)

	// InitiateTermination records the intent and the last working day
	// without changing state. CompleteTermination requires it.
	InitiateTermination(ctx context.Context, employeeID string, lastWorkingDay time.Time, actorID, reason string) (employee.Employee, error)

	CompleteTermination(ctx context.Context, employeeID, actorID string, eligibleForRehire bool) (employee.Employee, error)

	// Relieve is the resignation exit: Confirmed employees only.
	Relieve(ctx context.Context, employeeID string, exitDate time.Time, reason string, eligibleForRehire bool, actorID string) (employee.Employee, error)

	MarkInactive(ctx context.Context, employeeID, actorID, reason string) (employee.Employee, error)

	History(ctx context.Context, employeeID string) ([]Event, error)
}
