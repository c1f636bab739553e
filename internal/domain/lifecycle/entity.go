package lifecycle

import (
	"time"
)

// EventType identifies what happened to an employee.
type EventType string

const (
	EventProbationStarted     EventType = "PROBATION_STARTED"
	EventProbationConfirmed   EventType = "PROBATION_CONFIRMED"
	EventProbationExtended    EventType = "PROBATION_EXTENDED"
	EventProbationFailed      EventType = "PROBATION_FAILED"
	EventSuspended            EventType = "SUSPENDED"
	EventReactivated          EventType = "REACTIVATED"
	EventTerminationInitiated EventType = "TERMINATION_INITIATED"
	EventTerminated           EventType = "TERMINATED"
	EventRelieved             EventType = "RELIEVED"
	EventMarkedInactive       EventType = "MARKED_INACTIVE"
)

// SystemActor is recorded as TriggeredBy when a transition is applied by
// a background job rather than a user.
const SystemActor = "system"

// Event is an append-only audit record. It is the sole mechanism for
// reconstructing an employee's history and is never updated or deleted.
type Event struct {
	ID          string
	EmployeeID  string
	Type        EventType
	OldValue    *string
	NewValue    *string
	Metadata    map[string]interface{}
	TriggeredBy string
	OccurredAt  time.Time
}
