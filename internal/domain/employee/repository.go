package employee

import (
	"context"
)

// EmployeeRepository defines data access methods for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)

	GetByID(ctx context.Context, id string) (Employee, error)

	GetByCode(ctx context.Context, employeeCode string) (Employee, error)

	// UpdateState persists a lifecycle state change along with the
	// date fields the transition touched. Callers run this inside the
	// same transaction as the lifecycle event insert.
	UpdateState(ctx context.Context, emp Employee) error

	// ListActive returns employees whose state allows attendance
	// (probation, confirmed, extended).
	ListActive(ctx context.Context) ([]Employee, error)

	ListByDepartment(ctx context.Context, departmentID string) ([]Employee, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, dept Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context) ([]Department, error)
}
