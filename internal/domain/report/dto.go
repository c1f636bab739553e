package report

import (
	"fmt"
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

// DayStatus classifies one (employee, date) cell of a report. When both
// an approved leave and a holiday cover a date, leave wins; holiday wins
// over absent.
type DayStatus string

const (
	StatusPresent    DayStatus = "present"
	StatusOnLeave    DayStatus = "on_leave"
	StatusHoliday    DayStatus = "holiday"
	StatusAbsent     DayStatus = "absent"
	StatusNonWorking DayStatus = "non_working"
)

type MonthlyReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DailyLog struct {
	Date              string    `json:"date"`
	DayOfWeek         string    `json:"day_of_week"`
	Status            DayStatus `json:"status"`
	CheckIn           *string   `json:"check_in,omitempty"`
	CheckOut          *string   `json:"check_out,omitempty"`
	NetMinutes        int       `json:"net_minutes"`
	LateMinutes       int       `json:"late_minutes"`
	EarlyLeaveMinutes int       `json:"early_leave_minutes"`
	OvertimeMinutes   int       `json:"overtime_minutes"`
	LeaveTypeCode     *string   `json:"leave_type_code,omitempty"`
}

type MonthlySummary struct {
	WorkingDays      int     `json:"working_days"`
	PresentDays      int     `json:"present_days"`
	AbsentDays       int     `json:"absent_days"`
	LeaveDays        float64 `json:"leave_days"`
	HolidayDays      int     `json:"holiday_days"`
	LateDays         int     `json:"late_days"`
	TotalNetHours    float64 `json:"total_net_hours"`
	TotalLateMinutes int     `json:"total_late_minutes"`
	TotalOvertime    int     `json:"total_overtime_minutes"`

	// LeaveByType breaks LeaveDays down per leave type code.
	LeaveByType map[string]float64 `json:"leave_by_type"`
}

type EmployeeMonthlyReport struct {
	EmployeeID   string         `json:"employee_id"`
	EmployeeName string         `json:"employee_name"`
	PeriodMonth  int            `json:"period_month"`
	PeriodYear   int            `json:"period_year"`
	GeneratedAt  string         `json:"generated_at"`
	Summary      MonthlySummary `json:"summary"`
	DailyLogs    []DailyLog     `json:"daily_logs"`
}

type DailyReportRow struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Status       DayStatus `json:"status"`
	CheckIn      *string   `json:"check_in,omitempty"`
	CheckOut     *string   `json:"check_out,omitempty"`
	LateMinutes  int       `json:"late_minutes"`
}

type DailyReport struct {
	Date        string           `json:"date"`
	GeneratedAt string           `json:"generated_at"`
	Present     int              `json:"present"`
	Absent      int              `json:"absent"`
	OnLeave     int              `json:"on_leave"`
	Rows        []DailyReportRow `json:"rows"`
}

type DepartmentSummary struct {
	DepartmentID   string  `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	PeriodMonth    int     `json:"period_month"`
	PeriodYear     int     `json:"period_year"`
	Headcount      int     `json:"headcount"`
	PresentDays    int     `json:"present_days"`
	AbsentDays     int     `json:"absent_days"`
	LeaveDays      float64 `json:"leave_days"`
	LateDays       int     `json:"late_days"`
	AvgNetHours    float64 `json:"avg_net_hours"`
}
