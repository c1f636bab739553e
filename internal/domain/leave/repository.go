package leave

import (
	"context"
	"time"
)

type LeaveTypeRepository interface {
	Create(ctx context.Context, lt LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByCode(ctx context.Context, code string) (LeaveType, error)
	ListActive(ctx context.Context) ([]LeaveType, error)
}

type LeaveBalanceRepository interface {
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)

	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)

	// GetForUpdate locks the row for the duration of the surrounding
	// transaction. Two concurrent reservations against the same balance
	// serialize here.
	GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)

	// UpdateAmounts persists the additive components and re-derives
	// available atomically.
	UpdateAmounts(ctx context.Context, balance LeaveBalance) error

	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	// ListExpiredCarryForward returns balances with a nonzero carried
	// amount whose expiry date is before asOf.
	ListExpiredCarryForward(ctx context.Context, asOf time.Time) ([]LeaveBalance, error)
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	Update(ctx context.Context, req LeaveRequest) error

	// HasOverlap checks pending/approved requests of the employee
	// against [from, to], excluding excludeID when non-empty.
	HasOverlap(ctx context.Context, employeeID string, from, to time.Time, excludeID string) (bool, error)

	ListByEmployee(ctx context.Context, employeeID string, year int) ([]LeaveRequest, error)

	// ListApprovedInRange returns approved requests touching [from, to].
	ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequest, error)
}

type CompOffRepository interface {
	Create(ctx context.Context, credit CompOffCredit) (CompOffCredit, error)

	// ListAvailable returns unused, unexpired credits ordered oldest
	// first.
	ListAvailable(ctx context.Context, employeeID string, asOf time.Time) ([]CompOffCredit, error)

	MarkUsed(ctx context.Context, creditID, requestID string) error

	// ReleaseByRequest marks all credits consumed by the request unused
	// again.
	ReleaseByRequest(ctx context.Context, requestID string) error
}
