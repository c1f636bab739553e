package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/lifecycle"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/notification"
)

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByCode(_ context.Context, code string) (employee.Employee, error) {
	for _, emp := range r.employees {
		if emp.EmployeeCode == code {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) UpdateState(_ context.Context, emp employee.Employee) error {
	if _, ok := r.employees[emp.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	r.employees[emp.ID] = emp
	return nil
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.State.IsActive() {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListByDepartment(_ context.Context, departmentID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.DepartmentID == departmentID {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeEventRepo struct {
	events []lifecycle.Event
}

func (r *fakeEventRepo) Append(_ context.Context, event lifecycle.Event) (lifecycle.Event, error) {
	r.events = append(r.events, event)
	return event, nil
}

func (r *fakeEventRepo) ListByEmployee(_ context.Context, employeeID string) ([]lifecycle.Event, error) {
	var out []lifecycle.Event
	for _, e := range r.events {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return out, nil
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(_ context.Context, _ notification.Event) {}
func (noopDispatcher) Stop()                                            {}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newFixture(t *testing.T, state employee.LifecycleState) (*ServiceImpl, *fakeEmployeeRepo, *fakeEventRepo) {
	t.Helper()

	probationEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {
			ID: "emp-1", EmployeeCode: "EMP-001", FullName: "Ana Putri",
			State:            state,
			HireDate:         time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			ProbationEndDate: &probationEnd,
		},
	}}
	eventRepo := &fakeEventRepo{}

	svc := NewService(passthroughTx, empRepo, eventRepo, noopDispatcher{})
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc, empRepo, eventRepo
}

func TestMachineGuards(t *testing.T) {
	tests := []struct {
		name    string
		from    employee.LifecycleState
		to      employee.LifecycleState
		allowed bool
	}{
		{name: "onboarding to probation", from: employee.StateOnboarding, to: employee.StateProbation, allowed: true},
		{name: "probation to confirmed", from: employee.StateProbation, to: employee.StateConfirmed, allowed: true},
		{name: "probation to extended", from: employee.StateProbation, to: employee.StateExtended, allowed: true},
		{name: "extended to confirmed", from: employee.StateExtended, to: employee.StateConfirmed, allowed: true},
		{name: "confirmed to suspended", from: employee.StateConfirmed, to: employee.StateSuspended, allowed: true},
		{name: "suspended to confirmed", from: employee.StateSuspended, to: employee.StateConfirmed, allowed: true},
		{name: "confirmed to relieved", from: employee.StateConfirmed, to: employee.StateRelieved, allowed: true},
		{name: "onboarding to confirmed skips probation", from: employee.StateOnboarding, to: employee.StateConfirmed, allowed: false},
		{name: "terminated is terminal", from: employee.StateTerminated, to: employee.StateConfirmed, allowed: false},
		{name: "relieved is terminal", from: employee.StateRelieved, to: employee.StateConfirmed, allowed: false},
		{name: "suspended cannot resign", from: employee.StateSuspended, to: employee.StateRelieved, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, lifecycle.CanTransition(tt.from, tt.to))
		})
	}
}

func TestConfirmAfterProbationEnd(t *testing.T) {
	svc, empRepo, eventRepo := newFixture(t, employee.StateProbation)

	emp, err := svc.Confirm(context.Background(), "emp-1", "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, employee.StateConfirmed, emp.State)

	stored := empRepo.employees["emp-1"]
	assert.Equal(t, employee.StateConfirmed, stored.State)

	require.Len(t, eventRepo.events, 1)
	event := eventRepo.events[0]
	assert.Equal(t, lifecycle.EventProbationConfirmed, event.Type)
	require.NotNil(t, event.OldValue)
	assert.Equal(t, string(employee.StateProbation), *event.OldValue)
	assert.Equal(t, "mgr-1", event.TriggeredBy)
}

func TestConfirmBeforeProbationEnd(t *testing.T) {
	svc, _, eventRepo := newFixture(t, employee.StateProbation)
	svc.now = func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }

	_, err := svc.Confirm(context.Background(), "emp-1", "mgr-1")
	assert.ErrorIs(t, err, employee.ErrProbationNotElapsed)
	assert.Empty(t, eventRepo.events)
}

func TestExtendProbationRequiresLaterDate(t *testing.T) {
	svc, _, _ := newFixture(t, employee.StateProbation)
	ctx := context.Background()

	_, err := svc.ExtendProbation(ctx, "emp-1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), "mgr-1")
	assert.ErrorIs(t, err, employee.ErrInvalidProbationDate)

	emp, err := svc.ExtendProbation(ctx, "emp-1", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, employee.StateExtended, emp.State)
	assert.Equal(t, "2026-09-01", emp.ProbationEndDate.Format("2006-01-02"))
}

func TestInvalidTransitionLeavesNoEvent(t *testing.T) {
	svc, empRepo, eventRepo := newFixture(t, employee.StateOnboarding)

	_, err := svc.Confirm(context.Background(), "emp-1", "mgr-1")
	var invalid *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, employee.StateOnboarding, invalid.From)

	assert.Equal(t, employee.StateOnboarding, empRepo.employees["emp-1"].State)
	assert.Empty(t, eventRepo.events)
}

func TestTerminationIsTwoStep(t *testing.T) {
	svc, empRepo, eventRepo := newFixture(t, employee.StateConfirmed)
	ctx := context.Background()

	// Completing without initiating fails.
	_, err := svc.CompleteTermination(ctx, "emp-1", "adm-1", false)
	assert.ErrorIs(t, err, employee.ErrTerminationNotBegun)

	_, err = svc.InitiateTermination(ctx, "emp-1", time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), "adm-1", "restructuring")
	require.NoError(t, err)

	// Initiation does not change state; the employee keeps working.
	assert.Equal(t, employee.StateConfirmed, empRepo.employees["emp-1"].State)
	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, lifecycle.EventTerminationInitiated, eventRepo.events[0].Type)

	emp, err := svc.CompleteTermination(ctx, "emp-1", "adm-1", true)
	require.NoError(t, err)
	assert.Equal(t, employee.StateTerminated, emp.State)
	require.NotNil(t, emp.EligibleForRehire)
	assert.True(t, *emp.EligibleForRehire)

	// Terminated is terminal.
	_, err = svc.Reactivate(ctx, "emp-1", "adm-1")
	assert.Error(t, err)
}

func TestSuspendAndReactivate(t *testing.T) {
	svc, _, eventRepo := newFixture(t, employee.StateConfirmed)
	ctx := context.Background()

	until := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	emp, err := svc.Suspend(ctx, "emp-1", &until, "adm-1", "policy violation")
	require.NoError(t, err)
	assert.Equal(t, employee.StateSuspended, emp.State)
	require.NotNil(t, emp.SuspendedUntil)

	emp, err = svc.Reactivate(ctx, "emp-1", "adm-1")
	require.NoError(t, err)
	assert.Equal(t, employee.StateConfirmed, emp.State)
	assert.Nil(t, emp.SuspendedUntil)

	require.Len(t, eventRepo.events, 2)
	assert.Equal(t, lifecycle.EventReactivated, eventRepo.events[1].Type)
}

func TestFailProbationTerminates(t *testing.T) {
	svc, _, eventRepo := newFixture(t, employee.StateProbation)

	emp, err := svc.FailProbation(context.Background(), "emp-1", "mgr-1", "performance")
	require.NoError(t, err)
	assert.Equal(t, employee.StateTerminated, emp.State)
	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, lifecycle.EventProbationFailed, eventRepo.events[0].Type)
}

func TestRelieveOnlyFromConfirmed(t *testing.T) {
	svc, _, _ := newFixture(t, employee.StateProbation)

	_, err := svc.Relieve(context.Background(), "emp-1", time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), "personal", true, "emp-1")
	var invalid *lifecycle.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
}

func TestRelieveRecordsReasonAndRehire(t *testing.T) {
	svc, _, eventRepo := newFixture(t, employee.StateConfirmed)

	emp, err := svc.Relieve(context.Background(), "emp-1", time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), "relocating", true, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.StateRelieved, emp.State)
	require.NotNil(t, emp.EligibleForRehire)
	assert.True(t, *emp.EligibleForRehire)

	require.Len(t, eventRepo.events, 1)
	event := eventRepo.events[0]
	assert.Equal(t, lifecycle.EventRelieved, event.Type)
	assert.Equal(t, "relocating", event.Metadata["reason"])
	assert.Equal(t, true, event.Metadata["eligible_for_rehire"])
	assert.Equal(t, "2026-07-31", event.Metadata["exit_date"])
}

func TestInitiateTerminationNotFromProbation(t *testing.T) {
	svc, _, eventRepo := newFixture(t, employee.StateProbation)

	_, err := svc.InitiateTermination(context.Background(), "emp-1", time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), "adm-1", "restructuring")
	var invalid *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, employee.StateProbation, invalid.From)
	assert.Empty(t, eventRepo.events)
}

func TestHistoryReturnsAuditTrail(t *testing.T) {
	svc, _, _ := newFixture(t, employee.StateProbation)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, "emp-1", "mgr-1")
	require.NoError(t, err)
	until := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Suspend(ctx, "emp-1", &until, "adm-1", "policy violation")
	require.NoError(t, err)

	history, err := svc.History(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, lifecycle.EventProbationConfirmed, history[0].Type)
	assert.Equal(t, lifecycle.EventSuspended, history[1].Type)
}
