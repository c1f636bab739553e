package employee

import (
	"time"
)

type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Role         Role
	PINHash      string

	ShiftID      string
	DepartmentID string

	State             LifecycleState
	HireDate          time.Time
	ProbationEndDate  *time.Time
	SuspendedUntil    *time.Time
	ExitDate          *time.Time
	LastWorkingDay    *time.Time
	EligibleForRehire *bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	DepartmentName *string
	ShiftName      *string
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// LifecycleState is the employment lifecycle state. Employees are never
// hard-deleted; leaving the company is a state change to Terminated or
// Relieved.
type LifecycleState string

const (
	StateOnboarding LifecycleState = "onboarding"
	StateProbation  LifecycleState = "probation"
	StateConfirmed  LifecycleState = "confirmed"
	StateExtended   LifecycleState = "extended"
	StateSuspended  LifecycleState = "suspended"
	StateTerminated LifecycleState = "terminated"
	StateRelieved   LifecycleState = "relieved"
	StateInactive   LifecycleState = "inactive"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s LifecycleState) IsTerminal() bool {
	return s == StateTerminated || s == StateRelieved
}

// IsActive reports whether the employee may record attendance and
// request leave in state s.
func (s LifecycleState) IsActive() bool {
	return s == StateProbation || s == StateConfirmed || s == StateExtended
}

type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
