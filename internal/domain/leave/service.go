package leave

import (
	"context"
	"time"
)

// LeaveBalanceService manages the per-year balance ledger. Balances are
// materialized lazily on first access from the leave type's policy.
type LeaveBalanceService interface {
	GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (BalanceResponse, error)

	ListBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)

	// Adjust grants or revokes additional days on top of entitlement.
	Adjust(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) (BalanceResponse, error)

	// ApplyCarryForward rolls the unused balance of fromYear into
	// fromYear+1, capped by the leave type's carry-forward policy.
	ApplyCarryForward(ctx context.Context, employeeID, leaveTypeID string, fromYear int) (BalanceResponse, error)

	// ExpireCarryForward drops unused carried days past their expiry
	// date. Returns the number of balances touched.
	ExpireCarryForward(ctx context.Context, asOf time.Time) (int, error)

	GrantCompOff(ctx context.Context, req GrantCompOffRequest) (CompOffCredit, error)
}

// LeaveRequestService owns the request workflow. Days are reserved at
// submission, not approval: a pending request already holds its days.
type LeaveRequestService interface {
	Submit(ctx context.Context, req CreateLeaveRequestRequest) (RequestResponse, error)

	Get(ctx context.Context, requestID string) (RequestResponse, error)

	ListByEmployee(ctx context.Context, employeeID string, year int) ([]RequestResponse, error)

	Approve(ctx context.Context, requestID, approverID string) (RequestResponse, error)

	Reject(ctx context.Context, requestID, approverID, reason string) (RequestResponse, error)

	// Cancel releases the reservation. Approved requests can only be
	// cancelled before their start date.
	Cancel(ctx context.Context, requestID, actorID string, byAdmin bool) (RequestResponse, error)
}

// LeaveTypeService manages the leave type catalog.
type LeaveTypeService interface {
	CreateType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)

	GetType(ctx context.Context, id string) (LeaveTypeResponse, error)

	ListTypes(ctx context.Context) ([]LeaveTypeResponse, error)
}

type GrantCompOffRequest struct {
	EmployeeID string
	EarnedDate time.Time
	Days       float64
	ExpiresAt  *time.Time
}
