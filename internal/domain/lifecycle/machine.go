package lifecycle

import (
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
)

// allowedSources maps a target state to the states a transition into it
// may start from. Terminated and Relieved never appear as sources of any
// target: they are terminal.
var allowedSources = map[employee.LifecycleState][]employee.LifecycleState{
	employee.StateProbation: {employee.StateOnboarding},
	employee.StateConfirmed: {
		employee.StateProbation,
		employee.StateExtended,
		employee.StateSuspended,
		employee.StateInactive,
	},
	employee.StateExtended:  {employee.StateProbation},
	employee.StateSuspended: {employee.StateConfirmed, employee.StateExtended},
	employee.StateTerminated: {
		employee.StateProbation,
		employee.StateExtended,
		employee.StateConfirmed,
		employee.StateSuspended,
	},
	employee.StateRelieved: {employee.StateConfirmed},
	employee.StateInactive: {
		employee.StateOnboarding,
		employee.StateProbation,
		employee.StateConfirmed,
		employee.StateExtended,
		employee.StateSuspended,
	},
}

// Guard validates the state transition from -> to and returns an
// InvalidTransitionError when it is not allowed.
func Guard(from, to employee.LifecycleState) error {
	sources, ok := allowedSources[to]
	if !ok {
		return &InvalidTransitionError{From: from, To: to}
	}
	for _, s := range sources {
		if s == from {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

// CanTransition reports whether from -> to is an allowed transition.
func CanTransition(from, to employee.LifecycleState) bool {
	return Guard(from, to) == nil
}
