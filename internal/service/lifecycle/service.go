package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/lifecycle"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/notification"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
)

// ServiceImpl implements lifecycle.LifecycleService. State moves and the
// matching audit event commit atomically; a failed guard leaves both
// untouched.
type ServiceImpl struct {
	runTx database.TxRunner
	employee.EmployeeRepository
	events   lifecycle.EventRepository
	notifier notification.Dispatcher

	now func() time.Time
}

func NewService(
	runTx database.TxRunner,
	employeeRepository employee.EmployeeRepository,
	eventRepository lifecycle.EventRepository,
	notifier notification.Dispatcher,
) *ServiceImpl {
	return &ServiceImpl{
		runTx:              runTx,
		EmployeeRepository: employeeRepository,
		events:             eventRepository,
		notifier:           notifier,
		now:                time.Now,
	}
}

// transition applies a guarded state change: mutate may adjust the
// employee's date fields, then the new state and one event persist in
// the same transaction.
func (s *ServiceImpl) transition(
	ctx context.Context,
	employeeID string,
	to employee.LifecycleState,
	eventType lifecycle.EventType,
	actorID string,
	metadata map[string]interface{},
	mutate func(*employee.Employee) error,
) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}

	if err := lifecycle.Guard(emp.State, to); err != nil {
		return employee.Employee{}, err
	}

	from := emp.State
	if mutate != nil {
		if err := mutate(&emp); err != nil {
			return employee.Employee{}, err
		}
	}
	emp.State = to

	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.EmployeeRepository.UpdateState(ctx, emp); err != nil {
			return fmt.Errorf("failed to update employee state: %w", err)
		}
		if _, err := s.appendEvent(ctx, employeeID, eventType, string(from), string(to), actorID, metadata); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}

	s.notifier.Dispatch(ctx, notification.Event{
		Type:       notification.TypeLifecycleChanged,
		EmployeeID: employeeID,
		Message:    fmt.Sprintf("%s moved from %s to %s", emp.FullName, from, to),
		OccurredAt: s.now(),
	})
	return emp, nil
}

func (s *ServiceImpl) appendEvent(ctx context.Context, employeeID string, eventType lifecycle.EventType, oldValue, newValue, actorID string, metadata map[string]interface{}) (lifecycle.Event, error) {
	event := lifecycle.Event{
		ID:          uuid.New().String(),
		EmployeeID:  employeeID,
		Type:        eventType,
		TriggeredBy: actorID,
		Metadata:    metadata,
		OccurredAt:  s.now(),
	}
	if oldValue != "" {
		event.OldValue = &oldValue
	}
	if newValue != "" {
		event.NewValue = &newValue
	}

	created, err := s.events.Append(ctx, event)
	if err != nil {
		return lifecycle.Event{}, fmt.Errorf("failed to append lifecycle event: %w", err)
	}
	return created, nil
}

func (s *ServiceImpl) StartProbation(ctx context.Context, employeeID string, probationEnd time.Time, actorID string) (employee.Employee, error) {
	return s.transition(ctx, employeeID, employee.StateProbation, lifecycle.EventProbationStarted, actorID,
		map[string]interface{}{"probation_end_date": probationEnd.Format("2006-01-02")},
		func(emp *employee.Employee) error {
			if !probationEnd.After(s.now()) {
				return employee.ErrInvalidProbationDate
			}
			emp.ProbationEndDate = &probationEnd
			return nil
		})
}

func (s *ServiceImpl) Confirm(ctx context.Context, employeeID, actorID string) (employee.Employee, error) {
	return s.transition(ctx, employeeID, employee.StateConfirmed, lifecycle.EventProbationConfirmed, actorID, nil,
		func(emp *employee.Employee) error {
			// Confirmation out of probation waits for the probation
			// window to elapse; reactivation paths skip the check.
			if emp.State == employee.StateProbation || emp.State == employee.StateExtended {
				if emp.ProbationEndDate == nil || s.now().Before(*emp.ProbationEndDate) {
					return employee.ErrProbationNotElapsed
				}
			}
			emp.SuspendedUntil = nil
			return nil
		})
}

func (s *ServiceImpl) ExtendProbation(ctx context.Context, employeeID string, newEnd time.Time, actorID string) (employee.Employee, error) {
	return s.transition(ctx, employeeID, employee.StateExtended, lifecycle.EventProbationExtended, actorID,
		map[string]interface{}{"probation_end_date": newEnd.Format("2006-01-02")},
		func(emp *employee.Employee) error {
			if emp.ProbationEndDate != nil && !newEnd.After(*emp.ProbationEndDate) {
				return employee.ErrInvalidProbationDate
			}
			emp.ProbationEndDate = &newEnd
			return nil
		})
}

func (s *ServiceImpl) FailProbation(ctx context.Context, employeeID, actorID, reason string) (employee.Employee, error) {
	now := s.now()
	return s.transition(ctx, employeeID, employee.StateTerminated, lifecycle.EventProbationFailed, actorID,
		map[string]interface{}{"reason": reason},
		func(emp *employee.Employee) error {
			if emp.State != employee.StateProbation && emp.State != employee.StateExtended {
				return &lifecycle.InvalidTransitionError{From: emp.State, To: employee.StateTerminated}
			}
			emp.ExitDate = &now
			return nil
		})
}

func (s *ServiceImpl) Suspend(ctx context.Context, employeeID string, until *time.Time, actorID, reason string) (employee.Employee, error) {
	metadata := map[string]interface{}{"reason": reason}
	if until != nil {
		metadata["suspended_until"] = until.Format("2006-01-02")
	}
	return s.transition(ctx, employeeID, employee.StateSuspended, lifecycle.EventSuspended, actorID, metadata,
		func(emp *employee.Employee) error {
			emp.SuspendedUntil = until
			return nil
		})
}

func (s *ServiceImpl) Reactivate(ctx context.Context, employeeID, actorID string) (employee.Employee, error) {
	return s.transition(ctx, employeeID, employee.StateConfirmed, lifecycle.EventReactivated, actorID, nil,
		func(emp *employee.Employee) error {
			if emp.State != employee.StateSuspended && emp.State != employee.StateInactive {
				return &lifecycle.InvalidTransitionError{From: emp.State, To: employee.StateConfirmed}
			}
			emp.SuspendedUntil = nil
			return nil
		})
}

// InitiateTermination stays in the current state: it only records the
// last working day and the audit event. Attendance keeps accruing until
// CompleteTermination.
func (s *ServiceImpl) InitiateTermination(ctx context.Context, employeeID string, lastWorkingDay time.Time, actorID, reason string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}
	// The two-step path starts from Confirmed or Suspended; probation
	// exits go through FailProbation.
	if emp.State != employee.StateConfirmed && emp.State != employee.StateSuspended {
		return employee.Employee{}, &lifecycle.InvalidTransitionError{From: emp.State, To: employee.StateTerminated}
	}

	emp.LastWorkingDay = &lastWorkingDay

	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.EmployeeRepository.UpdateState(ctx, emp); err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		_, err := s.appendEvent(ctx, employeeID, lifecycle.EventTerminationInitiated, "", "",
			actorID, map[string]interface{}{
				"last_working_day": lastWorkingDay.Format("2006-01-02"),
				"reason":           reason,
			})
		return err
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

func (s *ServiceImpl) CompleteTermination(ctx context.Context, employeeID, actorID string, eligibleForRehire bool) (employee.Employee, error) {
	now := s.now()
	return s.transition(ctx, employeeID, employee.StateTerminated, lifecycle.EventTerminated, actorID,
		map[string]interface{}{"eligible_for_rehire": eligibleForRehire},
		func(emp *employee.Employee) error {
			if emp.LastWorkingDay == nil {
				return employee.ErrTerminationNotBegun
			}
			emp.ExitDate = &now
			emp.EligibleForRehire = &eligibleForRehire
			return nil
		})
}

func (s *ServiceImpl) Relieve(ctx context.Context, employeeID string, exitDate time.Time, reason string, eligibleForRehire bool, actorID string) (employee.Employee, error) {
	return s.transition(ctx, employeeID, employee.StateRelieved, lifecycle.EventRelieved, actorID,
		map[string]interface{}{
			"exit_date":           exitDate.Format("2006-01-02"),
			"reason":              reason,
			"eligible_for_rehire": eligibleForRehire,
		},
		func(emp *employee.Employee) error {
			emp.ExitDate = &exitDate
			emp.EligibleForRehire = &eligibleForRehire
			return nil
		})
}

func (s *ServiceImpl) MarkInactive(ctx context.Context, employeeID, actorID, reason string) (employee.Employee, error) {
	return s.transition(ctx, employeeID, employee.StateInactive, lifecycle.EventMarkedInactive, actorID,
		map[string]interface{}{"reason": reason}, nil)
}

func (s *ServiceImpl) History(ctx context.Context, employeeID string) ([]lifecycle.Event, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lifecycle events: %w", err)
	}
	return events, nil
}
