package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeInactive    = errors.New("leave type is inactive")
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrBalanceNotFound      = errors.New("leave balance not found")
	ErrNoPolicyDefined      = errors.New("no entitlement policy defined for this leave type")
	ErrOverlapConflict      = errors.New("leave request overlaps an existing pending or approved request")
	ErrAlreadyProcessed     = errors.New("leave request has already been processed")
	ErrCancelAfterStart     = errors.New("approved leave can only be cancelled before it starts")
	ErrProofRequired        = errors.New("this leave type requires a proof attachment")
	ErrHalfDayRange         = errors.New("half-day leave must start and end on the same date")
	ErrInvalidDateRange     = errors.New("from date must not be after to date")
	ErrCompOffNotFound      = errors.New("comp-off credit not found")
	ErrZeroDayRequest       = errors.New("request covers no deductible days")
	ErrCarryForwardDisabled = errors.New("carry-forward is disabled for this leave type")
)

// InsufficientBalanceError reports how many days the request is short by
// after comp-off credits were applied.
type InsufficientBalanceError struct {
	Shortfall float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance, short by %.1f days", e.Shortfall)
}
