package report

import (
	"context"
	"time"
)

// ReportService is read-only aggregation over attendance, leave and
// holiday data. It tolerates missing attendance days.
type ReportService interface {
	EmployeeMonthly(ctx context.Context, employeeID string, month, year int) (EmployeeMonthlyReport, error)

	Daily(ctx context.Context, date time.Time) (DailyReport, error)

	Department(ctx context.Context, departmentID string, month, year int) (DepartmentSummary, error)
}
