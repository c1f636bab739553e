package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/report"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
)

// ServiceImpl implements report.ReportService by rolling up attendance,
// approved leave and the holiday table. It never writes.
type ServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	requestRepo    leave.LeaveRequestRepository
	leaveTypeRepo  leave.LeaveTypeRepository
	holidayRepo    shift.HolidayRepository
	shiftRepo      shift.ShiftRepository
	employeeRepo   employee.EmployeeRepository
	departmentRepo employee.DepartmentRepository

	now func() time.Time
}

func NewService(
	attendanceRepo attendance.AttendanceRepository,
	requestRepo leave.LeaveRequestRepository,
	leaveTypeRepo leave.LeaveTypeRepository,
	holidayRepo shift.HolidayRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	departmentRepo employee.DepartmentRepository,
) *ServiceImpl {
	return &ServiceImpl{
		attendanceRepo: attendanceRepo,
		requestRepo:    requestRepo,
		leaveTypeRepo:  leaveTypeRepo,
		holidayRepo:    holidayRepo,
		shiftRepo:      shiftRepo,
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		now:            time.Now,
	}
}

// leaveCell is the per-date share of an approved leave request.
type leaveCell struct {
	days float64
	code string
}

func (s *ServiceImpl) EmployeeMonthly(ctx context.Context, employeeID string, month, year int) (report.EmployeeMonthlyReport, error) {
	req := report.MonthlyReportRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return report.EmployeeMonthlyReport{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return report.EmployeeMonthlyReport{}, err
	}

	summary, logs, err := s.monthlyRollup(ctx, emp, month, year)
	if err != nil {
		return report.EmployeeMonthlyReport{}, err
	}

	return report.EmployeeMonthlyReport{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		PeriodMonth:  month,
		PeriodYear:   year,
		GeneratedAt:  s.now().Format(time.RFC3339),
		Summary:      summary,
		DailyLogs:    logs,
	}, nil
}

// monthlyRollup walks every calendar day of the month up to today,
// classifying each one. Precedence on a working day: approved leave
// beats holiday beats absent; recorded attendance always shows as
// present.
func (s *ServiceImpl) monthlyRollup(ctx context.Context, emp employee.Employee, month, year int) (report.MonthlySummary, []report.DailyLog, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	// Future days are not reported on.
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if to.After(today) {
		to = today
	}

	summary := report.MonthlySummary{LeaveByType: make(map[string]float64)}
	if to.Before(from) {
		return summary, nil, nil
	}

	sh, err := s.shiftFor(ctx, emp)
	if err != nil {
		return report.MonthlySummary{}, nil, fmt.Errorf("failed to resolve shift: %w", err)
	}

	days, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, emp.ID, from, to)
	if err != nil {
		return report.MonthlySummary{}, nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	attendanceByDate := make(map[string]attendance.AttendanceDay, len(days))
	for _, day := range days {
		attendanceByDate[day.Date.Format("2006-01-02")] = day
	}

	holidays, err := s.holidayRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		return report.MonthlySummary{}, nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Date.Format("2006-01-02")] = true
	}

	leaveByDate, err := s.leaveCells(ctx, emp.ID, from, to, holidaySet)
	if err != nil {
		return report.MonthlySummary{}, nil, err
	}

	var logs []report.DailyLog
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		log := report.DailyLog{Date: key, DayOfWeek: d.Weekday().String()}

		workingDay := sh.Weekdays.ActiveOn(d.Weekday())
		cell, onLeave := leaveByDate[key]
		day, hasAttendance := attendanceByDate[key]
		isHoliday := holidaySet[key]

		if workingDay && !isHoliday {
			summary.WorkingDays++
		}

		switch {
		case hasAttendance && day.Status != attendance.StatusAbsent:
			log.Status = report.StatusPresent
			if first := day.FirstCheckIn(); first != nil {
				v := first.Format("15:04")
				log.CheckIn = &v
			}
			if last := day.LastCheckOut(); last != nil {
				v := last.Format("15:04")
				log.CheckOut = &v
			}
			log.NetMinutes = day.NetMinutes
			log.LateMinutes = day.LateMinutes
			log.EarlyLeaveMinutes = day.EarlyLeaveMinutes
			log.OvertimeMinutes = day.OvertimeMinutes

			summary.PresentDays++
			summary.TotalNetHours += float64(day.NetMinutes) / 60
			summary.TotalLateMinutes += day.LateMinutes
			summary.TotalOvertime += day.OvertimeMinutes
			if day.LateMinutes > 0 {
				summary.LateDays++
			}
		case onLeave:
			log.Status = report.StatusOnLeave
			code := cell.code
			log.LeaveTypeCode = &code
			summary.LeaveDays += cell.days
			summary.LeaveByType[cell.code] += cell.days
		case isHoliday && workingDay:
			log.Status = report.StatusHoliday
			summary.HolidayDays++
		case !workingDay:
			log.Status = report.StatusNonWorking
		default:
			log.Status = report.StatusAbsent
			summary.AbsentDays++
		}

		logs = append(logs, log)
	}

	summary.TotalNetHours = math.Round(summary.TotalNetHours*100) / 100
	return summary, logs, nil
}

// leaveCells expands approved requests into per-date entries. A half-day
// request contributes 0.5; non-deductible dates inside a range still
// show as on-leave but contribute zero days.
func (s *ServiceImpl) leaveCells(ctx context.Context, employeeID string, from, to time.Time, holidaySet map[string]bool) (map[string]leaveCell, error) {
	requests, err := s.requestRepo.ListApprovedInRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}

	cells := make(map[string]leaveCell)
	for _, request := range requests {
		lt, err := s.leaveTypeRepo.GetByID(ctx, request.LeaveTypeID)
		if err != nil {
			return nil, err
		}

		if request.IsHalfDay {
			cells[request.FromDate.Format("2006-01-02")] = leaveCell{days: 0.5, code: lt.Code}
			continue
		}

		for d := request.FromDate; !d.After(request.ToDate); d = d.AddDate(0, 0, 1) {
			if d.Before(from) || d.After(to) {
				continue
			}
			key := d.Format("2006-01-02")
			share := 1.0
			if !lt.CountWeekends && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
				share = 0
			}
			if !lt.CountHolidays && holidaySet[key] {
				share = 0
			}
			cells[key] = leaveCell{days: share, code: lt.Code}
		}
	}
	return cells, nil
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

func (s *ServiceImpl) Daily(ctx context.Context, date time.Time) (report.DailyReport, error) {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to list employees: %w", err)
	}

	attendanceDays, err := s.attendanceRepo.ListByDate(ctx, date)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	attendanceByEmployee := make(map[string]attendance.AttendanceDay, len(attendanceDays))
	for _, day := range attendanceDays {
		attendanceByEmployee[day.EmployeeID] = day
	}

	isHoliday, err := s.holidayRepo.IsHoliday(ctx, date)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to check holiday: %w", err)
	}

	out := report.DailyReport{
		Date:        date.Format("2006-01-02"),
		GeneratedAt: s.now().Format(time.RFC3339),
	}

	for _, emp := range employees {
		sh, err := s.shiftFor(ctx, emp)
		if err != nil {
			return report.DailyReport{}, fmt.Errorf("failed to resolve shift: %w", err)
		}

		row := report.DailyReportRow{EmployeeID: emp.ID, EmployeeName: emp.FullName}

		cells, err := s.leaveCells(ctx, emp.ID, date, date, map[string]bool{date.Format("2006-01-02"): isHoliday})
		if err != nil {
			return report.DailyReport{}, err
		}
		_, onLeave := cells[date.Format("2006-01-02")]
		day, hasAttendance := attendanceByEmployee[emp.ID]

		switch {
		case hasAttendance && day.Status != attendance.StatusAbsent:
			row.Status = report.StatusPresent
			if first := day.FirstCheckIn(); first != nil {
				v := first.Format("15:04")
				row.CheckIn = &v
			}
			if last := day.LastCheckOut(); last != nil {
				v := last.Format("15:04")
				row.CheckOut = &v
			}
			row.LateMinutes = day.LateMinutes
			out.Present++
		case onLeave:
			row.Status = report.StatusOnLeave
			out.OnLeave++
		case isHoliday && sh.Weekdays.ActiveOn(date.Weekday()):
			row.Status = report.StatusHoliday
		case !sh.Weekdays.ActiveOn(date.Weekday()):
			row.Status = report.StatusNonWorking
		default:
			row.Status = report.StatusAbsent
			out.Absent++
		}

		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

func (s *ServiceImpl) Department(ctx context.Context, departmentID string, month, year int) (report.DepartmentSummary, error) {
	req := report.MonthlyReportRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return report.DepartmentSummary{}, err
	}

	dept, err := s.departmentRepo.GetByID(ctx, departmentID)
	if err != nil {
		return report.DepartmentSummary{}, err
	}

	employees, err := s.employeeRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return report.DepartmentSummary{}, fmt.Errorf("failed to list department employees: %w", err)
	}

	out := report.DepartmentSummary{
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		PeriodMonth:    month,
		PeriodYear:     year,
		Headcount:      len(employees),
	}

	var totalNetHours float64
	for _, emp := range employees {
		summary, _, err := s.monthlyRollup(ctx, emp, month, year)
		if err != nil {
			return report.DepartmentSummary{}, err
		}
		out.PresentDays += summary.PresentDays
		out.AbsentDays += summary.AbsentDays
		out.LeaveDays += summary.LeaveDays
		out.LateDays += summary.LateDays
		totalNetHours += summary.TotalNetHours
	}
	if len(employees) > 0 {
		out.AvgNetHours = math.Round(totalNetHours/float64(len(employees))*100) / 100
	}

	return out, nil
}
