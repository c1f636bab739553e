package leave

import (
	"time"
)

// AccrualPolicy controls how entitlement is granted.
type AccrualPolicy struct {
	Enabled bool
	// Frequency is 'yearly' (full grant at year start) or 'monthly'
	// (pro-rated by months worked).
	Frequency string
	// DaysPerYear is the annual entitlement.
	DaysPerYear float64
	// Cap limits entitlement after adjustments; 0 means uncapped.
	Cap float64
}

const (
	AccrualYearly  = "yearly"
	AccrualMonthly = "monthly"
)

// CarryForwardPolicy controls rollover of unused balance into the next
// year.
type CarryForwardPolicy struct {
	Enabled bool
	MaxDays float64
	// ExpiryMonths is how many months after the target year starts the
	// carried balance survives; 0 means it never expires.
	ExpiryMonths int
}

// EncashmentPolicy controls paying out unused balance on exit.
type EncashmentPolicy struct {
	Enabled bool
	MaxDays float64
}

type LeaveType struct {
	ID          string
	Code        string
	Name        string
	Description *string

	Accrual      AccrualPolicy
	CarryForward CarryForwardPolicy
	Encashment   EncashmentPolicy

	RequiresProof bool

	// Deduction flags: whether weekend / holiday days inside a request
	// consume balance.
	CountWeekends bool
	CountHolidays bool

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveBalance tracks one (employee, leaveType, year). Available is
// always derived, never stored independently.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int

	Entitled           float64
	CarriedForward     float64
	CarryForwardExpiry *time.Time
	Additional         float64
	Used               float64

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	LeaveTypeCode *string
}

// Available derives the spendable balance. Every mutation must leave
// this formula intact.
func (b LeaveBalance) Available() float64 {
	return b.Entitled + b.CarriedForward + b.Additional - b.Used
}

type RequestStatus string

const (
	StatusPending          RequestStatus = "pending"
	StatusApproved         RequestStatus = "approved"
	StatusRejected         RequestStatus = "rejected"
	StatusCancelled        RequestStatus = "cancelled"
	StatusCancelledByAdmin RequestStatus = "cancelled_by_admin"
)

// Terminal reports whether a request can no longer change status,
// except for the Approved -> Cancelled pre-start path.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCancelledByAdmin
}

type HalfDayType string

const (
	HalfDayMorning   HalfDayType = "morning"
	HalfDayAfternoon HalfDayType = "afternoon"
)

// LeaveRequest is never deleted; cancellation is a status change.
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string

	FromDate  time.Time
	ToDate    time.Time
	IsHalfDay bool
	HalfType  *HalfDayType

	// TotalDays is computed once, at creation or update time, from the
	// calendar policy in effect.
	TotalDays float64
	// CompOffDays is the portion of TotalDays covered by comp-off
	// credits; the remainder came out of the balance.
	CompOffDays float64

	Reason     string
	ProofURL   *string
	IsBackdate bool

	Status          RequestStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CancelledBy     *string
	CancelledAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	LeaveTypeName *string
	EmployeeName  *string
}

// CompOffCredit is compensatory time earned by working a holiday or
// weekend, consumable like leave before the balance is touched.
type CompOffCredit struct {
	ID              string
	EmployeeID      string
	EarnedDate      time.Time
	Days            float64
	Used            bool
	UsedByRequestID *string
	ExpiresAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
