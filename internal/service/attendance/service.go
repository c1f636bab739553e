package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/notification"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
)

// ServiceImpl implements attendance.AttendanceService. Mutations for the
// same employee serialize on a per-employee mutex so a double-tap never
// produces two open sessions.
type ServiceImpl struct {
	runTx          database.TxRunner
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	shiftRepo      shift.ShiftRepository
	notifier       notification.Dispatcher
	policy         attendance.CheckPolicy
	logger         *slog.Logger

	locks sync.Map // employeeID -> *sync.Mutex

	// now is swappable in tests.
	now func() time.Time
}

func NewService(
	runTx database.TxRunner,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	notifier notification.Dispatcher,
	policy attendance.CheckPolicy,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		runTx:          runTx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		shiftRepo:      shiftRepo,
		notifier:       notifier,
		policy:         policy,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *ServiceImpl) lockEmployee(employeeID string) func() {
	v, _ := s.locks.LoadOrStore(employeeID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func dateOf(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}

func (s *ServiceImpl) activeEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}
	if !emp.State.IsActive() {
		return employee.Employee{}, employee.ErrEmployeeNotActive
	}
	return emp, nil
}

func (s *ServiceImpl) shiftFor(ctx context.Context, emp employee.Employee) (shift.Shift, error) {
	if emp.ShiftID != "" {
		sh, err := s.shiftRepo.GetByID(ctx, emp.ShiftID)
		if err == nil {
			return sh, nil
		}
	}
	return s.shiftRepo.GetDefault(ctx)
}

func (s *ServiceImpl) CheckIn(ctx context.Context, req attendance.CheckRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	unlock := s.lockEmployee(req.EmployeeID)
	defer unlock()

	emp, err := s.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	sh, err := s.shiftFor(ctx, emp)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to resolve shift: %w", err)
	}

	date := dateOf(req.Timestamp)
	day, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance day: %w", err)
	}

	isNew := day == nil
	if isNew {
		day = &attendance.AttendanceDay{
			ID:         uuid.New().String(),
			EmployeeID: req.EmployeeID,
			Date:       date,
			State:      attendance.DayStateNew,
		}
	}

	if err := day.ApplyCheckIn(req.Timestamp, req.Latitude, req.Longitude, s.policy); err != nil {
		return attendance.DayResponse{}, err
	}

	day.Status = attendance.StatusPresent
	if first := day.FirstCheckIn(); first != nil {
		if late := first.Sub(sh.StartOn(date)); late > 0 {
			day.LateMinutes = int(late.Minutes())
		}
	}

	// The day row and its event and break rows are separate statements,
	// so the write must run in one transaction.
	err = s.runTx(ctx, func(ctx context.Context) error {
		if isNew {
			created, err := s.attendanceRepo.Create(ctx, *day)
			if err != nil {
				return err
			}
			*day = created
			return nil
		}
		return s.attendanceRepo.Save(ctx, *day)
	})
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to persist attendance day: %w", err)
	}

	s.notifier.Dispatch(ctx, notification.Event{
		Type:       notification.TypeCheckedIn,
		EmployeeID: req.EmployeeID,
		Message:    fmt.Sprintf("%s checked in at %s", emp.FullName, req.Timestamp.Format("15:04")),
		OccurredAt: s.now(),
	})

	return attendance.ToDayResponse(*day), nil
}

func (s *ServiceImpl) CheckOut(ctx context.Context, req attendance.CheckRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	unlock := s.lockEmployee(req.EmployeeID)
	defer unlock()

	emp, err := s.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	sh, err := s.shiftFor(ctx, emp)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to resolve shift: %w", err)
	}

	date := dateOf(req.Timestamp)
	day, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day == nil {
		return attendance.DayResponse{}, attendance.ErrNotCheckedIn
	}

	if err := day.ApplyCheckOut(req.Timestamp, req.Latitude, req.Longitude); err != nil {
		return attendance.DayResponse{}, err
	}

	s.finalizeAggregates(day, sh, req.Timestamp)

	err = s.runTx(ctx, func(ctx context.Context) error {
		return s.attendanceRepo.Save(ctx, *day)
	})
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to save attendance day: %w", err)
	}

	s.notifier.Dispatch(ctx, notification.Event{
		Type:       notification.TypeCheckedOut,
		EmployeeID: req.EmployeeID,
		Message:    fmt.Sprintf("%s checked out at %s", emp.FullName, req.Timestamp.Format("15:04")),
		OccurredAt: s.now(),
	})

	return attendance.ToDayResponse(*day), nil
}

// finalizeAggregates recomputes the cached minute counters against the
// employee's shift after a closing mutation.
func (s *ServiceImpl) finalizeAggregates(day *attendance.AttendanceDay, sh shift.Shift, asOf time.Time) {
	day.NetMinutes = day.ComputeNetMinutes(asOf)
	day.BreakMinutes = day.ComputeBreakMinutes(asOf)

	shiftEnd := sh.EndOn(day.Date)
	day.EarlyLeaveMinutes = 0
	day.OvertimeMinutes = 0
	if last := day.LastCheckOut(); last != nil && !day.HasOpenSession() {
		if early := shiftEnd.Sub(*last); early > 0 {
			day.EarlyLeaveMinutes = int(early.Minutes())
		}
		if overtime := last.Sub(shiftEnd); overtime > 0 {
			day.OvertimeMinutes = int(overtime.Minutes())
		}
	}
}

func (s *ServiceImpl) StartBreak(ctx context.Context, req attendance.BreakRequest) (attendance.DayResponse, error) {
	return s.mutateBreak(ctx, req, func(day *attendance.AttendanceDay) error {
		return day.StartBreak(req.Timestamp)
	})
}

func (s *ServiceImpl) StopBreak(ctx context.Context, req attendance.BreakRequest) (attendance.DayResponse, error) {
	return s.mutateBreak(ctx, req, func(day *attendance.AttendanceDay) error {
		return day.StopBreak(req.Timestamp)
	})
}

func (s *ServiceImpl) mutateBreak(ctx context.Context, req attendance.BreakRequest, mutate func(*attendance.AttendanceDay) error) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	unlock := s.lockEmployee(req.EmployeeID)
	defer unlock()

	if _, err := s.activeEmployee(ctx, req.EmployeeID); err != nil {
		return attendance.DayResponse{}, err
	}

	date := dateOf(req.Timestamp)
	day, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day == nil {
		return attendance.DayResponse{}, attendance.ErrNoOpenSession
	}

	if err := mutate(day); err != nil {
		return attendance.DayResponse{}, err
	}

	day.BreakMinutes = day.ComputeBreakMinutes(req.Timestamp)

	err = s.runTx(ctx, func(ctx context.Context) error {
		return s.attendanceRepo.Save(ctx, *day)
	})
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to save attendance day: %w", err)
	}

	return attendance.ToDayResponse(*day), nil
}

// GetDay returns the day with provisional aggregates: an open session
// counts work up to the current moment without persisting anything.
func (s *ServiceImpl) GetDay(ctx context.Context, employeeID string, date time.Time) (attendance.DayResponse, error) {
	day, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, dateOf(date))
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day == nil {
		return attendance.DayResponse{}, attendance.ErrAttendanceNotFound
	}

	if day.HasOpenSession() {
		now := s.now()
		day.NetMinutes = day.ComputeNetMinutes(now)
		day.BreakMinutes = day.ComputeBreakMinutes(now)
	}

	return attendance.ToDayResponse(*day), nil
}

func (s *ServiceImpl) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.DayResponse, error) {
	if from.After(to) {
		return nil, fmt.Errorf("from date %s is after to date %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	days, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, dateOf(from), dateOf(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}

	responses := make([]attendance.DayResponse, 0, len(days))
	for _, day := range days {
		responses = append(responses, attendance.ToDayResponse(day))
	}
	return responses, nil
}

// AutoCloseStale closes sessions left open past the cutoff. The close
// timestamp is the scheduled shift end for the day, pushed forward when
// activity was recorded after it.
func (s *ServiceImpl) AutoCloseStale(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.attendanceRepo.ListStaleOpen(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	closed := 0
	for i := range stale {
		day := stale[i]

		unlock := s.lockEmployee(day.EmployeeID)

		emp, err := s.employeeRepo.GetByID(ctx, day.EmployeeID)
		if err != nil {
			unlock()
			s.logger.Error("auto-close: failed to load employee",
				slog.String("employee_id", day.EmployeeID), slog.Any("error", err))
			continue
		}
		sh, err := s.shiftFor(ctx, emp)
		if err != nil {
			unlock()
			s.logger.Error("auto-close: failed to resolve shift",
				slog.String("employee_id", day.EmployeeID), slog.Any("error", err))
			continue
		}

		closeAt := sh.EndOn(day.Date)
		if last := day.LastTimestamp(); !closeAt.After(last) {
			closeAt = last.Add(time.Minute)
		}

		if err := day.ApplyCheckOut(closeAt, nil, nil); err != nil {
			unlock()
			s.logger.Error("auto-close: failed to close session",
				slog.String("attendance_id", day.ID), slog.Any("error", err))
			continue
		}
		s.finalizeAggregates(&day, sh, closeAt)
		day.Status = attendance.StatusAutoClosed

		saveErr := s.runTx(ctx, func(ctx context.Context) error {
			return s.attendanceRepo.Save(ctx, day)
		})
		if saveErr != nil {
			unlock()
			s.logger.Error("auto-close: failed to save attendance day",
				slog.String("attendance_id", day.ID), slog.Any("error", saveErr))
			continue
		}
		unlock()

		s.notifier.Dispatch(ctx, notification.Event{
			Type:       notification.TypeSessionAutoClose,
			EmployeeID: day.EmployeeID,
			Message:    fmt.Sprintf("open session on %s was closed automatically", day.Date.Format("2006-01-02")),
			OccurredAt: s.now(),
		})
		closed++
	}

	return closed, nil
}
