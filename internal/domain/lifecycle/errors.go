package lifecycle

import (
	"errors"
	"fmt"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
)

var ErrEventNotFound = errors.New("lifecycle event not found")

// InvalidTransitionError is returned when the employee's current state is
// not in the allowed source set for the requested transition.
type InvalidTransitionError struct {
	From employee.LifecycleState
	To   employee.LifecycleState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid lifecycle transition from %q to %q", e.From, e.To)
}
