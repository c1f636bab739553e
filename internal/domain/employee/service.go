package employee

import (
	"context"
)

// EmployeeService covers directory management. Lifecycle transitions
// live in the lifecycle service; this one never changes state beyond
// the initial Onboarding.
type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	Get(ctx context.Context, id string) (EmployeeResponse, error)

	List(ctx context.Context) ([]EmployeeResponse, error)

	CreateDepartment(ctx context.Context, name string) (Department, error)

	ListDepartments(ctx context.Context) ([]Department, error)
}
