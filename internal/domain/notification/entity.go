package notification

import (
	"time"
)

type EventType string

const (
	TypeCheckedIn        EventType = "attendance_checked_in"
	TypeCheckedOut       EventType = "attendance_checked_out"
	TypeSessionAutoClose EventType = "attendance_auto_closed"
	TypeLeaveRequested   EventType = "leave_requested"
	TypeLeaveApproved    EventType = "leave_approved"
	TypeLeaveRejected    EventType = "leave_rejected"
	TypeLeaveCancelled   EventType = "leave_cancelled"
	TypeLifecycleChanged EventType = "lifecycle_changed"
)

// Event is the fire-and-forget signal handed to the dispatcher. Delivery
// is best-effort; the engine never waits for it.
type Event struct {
	Type       EventType
	EmployeeID string
	Message    string
	Data       map[string]interface{}
	OccurredAt time.Time
}
