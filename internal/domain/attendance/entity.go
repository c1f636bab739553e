package attendance

import (
	"time"
)

type CheckType string

const (
	CheckIn  CheckType = "check_in"
	CheckOut CheckType = "check_out"
)

// CheckEvent is one check-in or check-out action. Events on a day are
// ordered and monotonically increasing in timestamp.
type CheckEvent struct {
	Type      CheckType
	Timestamp time.Time
	Latitude  *float64
	Longitude *float64
}

// BreakInterval is a break taken inside a session. EndedAt is nil while
// the break is running; at most one break per day may be open.
type BreakInterval struct {
	StartedAt time.Time
	EndedAt   *time.Time
}

type DayState string

const (
	DayStateNew        DayState = "new"
	DayStateCheckedIn  DayState = "checked_in"
	DayStateCheckedOut DayState = "checked_out"
)

// CheckPolicy carries the runtime toggles that change check-in semantics.
// It is passed explicitly into every mutating operation.
type CheckPolicy struct {
	// AllowMultipleCheckIn lets a check-in re-open a day that already
	// has a closed session.
	AllowMultipleCheckIn bool
}

// AttendanceDay is the record for one (employee, calendar date). It is
// created on the first check-in and only ever appended to or closed,
// never deleted.
type AttendanceDay struct {
	ID         string
	EmployeeID string
	Date       time.Time

	Events []CheckEvent
	Breaks []BreakInterval

	State DayState

	// Cached aggregates, recomputed on every closing mutation.
	NetMinutes        int
	BreakMinutes      int
	LateMinutes       int
	EarlyLeaveMinutes int
	OvertimeMinutes   int

	Status string // present, absent, auto_closed

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

const (
	StatusPresent    = "present"
	StatusAbsent     = "absent"
	StatusAutoClosed = "auto_closed"
)

// HasOpenSession reports whether the last event is an unmatched check-in.
func (d *AttendanceDay) HasOpenSession() bool {
	n := len(d.Events)
	return n > 0 && d.Events[n-1].Type == CheckIn
}

// OpenBreakIndex returns the index of the running break, or -1.
func (d *AttendanceDay) OpenBreakIndex() int {
	for i := range d.Breaks {
		if d.Breaks[i].EndedAt == nil {
			return i
		}
	}
	return -1
}

// LastTimestamp is the latest timestamp recorded on the day, across both
// check events and break boundaries. New events must come after it.
func (d *AttendanceDay) LastTimestamp() time.Time {
	var last time.Time
	if n := len(d.Events); n > 0 {
		last = d.Events[n-1].Timestamp
	}
	for _, b := range d.Breaks {
		if b.StartedAt.After(last) {
			last = b.StartedAt
		}
		if b.EndedAt != nil && b.EndedAt.After(last) {
			last = *b.EndedAt
		}
	}
	return last
}

// ApplyCheckIn appends a check-in event. A fresh day opens its first
// session; a closed day re-opens only when the policy allows multiple
// check-ins.
func (d *AttendanceDay) ApplyCheckIn(ts time.Time, lat, lng *float64, policy CheckPolicy) error {
	if d.HasOpenSession() {
		return ErrAlreadyCheckedIn
	}
	if len(d.Events) > 0 && !policy.AllowMultipleCheckIn {
		return ErrAlreadyCheckedIn
	}
	if !ts.After(d.LastTimestamp()) {
		return ErrInvalidSequence
	}
	d.Events = append(d.Events, CheckEvent{Type: CheckIn, Timestamp: ts, Latitude: lat, Longitude: lng})
	d.State = DayStateCheckedIn
	return nil
}

// ApplyCheckOut closes the open session. A running break is closed at
// the check-out timestamp.
func (d *AttendanceDay) ApplyCheckOut(ts time.Time, lat, lng *float64) error {
	if !d.HasOpenSession() {
		return ErrNotCheckedIn
	}
	if !ts.After(d.LastTimestamp()) {
		return ErrInvalidSequence
	}
	if i := d.OpenBreakIndex(); i >= 0 {
		end := ts
		d.Breaks[i].EndedAt = &end
	}
	d.Events = append(d.Events, CheckEvent{Type: CheckOut, Timestamp: ts, Latitude: lat, Longitude: lng})
	d.State = DayStateCheckedOut
	return nil
}

// StartBreak opens a break inside the open session.
func (d *AttendanceDay) StartBreak(ts time.Time) error {
	if !d.HasOpenSession() {
		return ErrNoOpenSession
	}
	if d.OpenBreakIndex() >= 0 {
		return ErrBreakAlreadyOpen
	}
	if !ts.After(d.LastTimestamp()) {
		return ErrInvalidSequence
	}
	d.Breaks = append(d.Breaks, BreakInterval{StartedAt: ts})
	return nil
}

// StopBreak closes the running break.
func (d *AttendanceDay) StopBreak(ts time.Time) error {
	i := d.OpenBreakIndex()
	if i < 0 {
		return ErrNoOpenBreak
	}
	if !ts.After(d.LastTimestamp()) {
		return ErrInvalidSequence
	}
	end := ts
	d.Breaks[i].EndedAt = &end
	return nil
}

// sessions pairs events into (start, end) spans. An open session ends at
// now provisionally.
func (d *AttendanceDay) sessions(now time.Time) [][2]time.Time {
	var spans [][2]time.Time
	var open *time.Time
	for i := range d.Events {
		ev := d.Events[i]
		switch ev.Type {
		case CheckIn:
			t := ev.Timestamp
			open = &t
		case CheckOut:
			if open != nil {
				spans = append(spans, [2]time.Time{*open, ev.Timestamp})
				open = nil
			}
		}
	}
	if open != nil && now.After(*open) {
		spans = append(spans, [2]time.Time{*open, now})
	}
	return spans
}

// ComputeNetMinutes sums per-session duration minus the break minutes
// overlapping each session. An open session uses now as its provisional
// end; the result is never negative.
func (d *AttendanceDay) ComputeNetMinutes(now time.Time) int {
	net := 0
	for _, span := range d.sessions(now) {
		sessionMins := int(span[1].Sub(span[0]).Minutes())
		breakMins := 0
		for _, b := range d.Breaks {
			breakMins += overlapMinutes(b, span[0], span[1], now)
		}
		if breakMins > sessionMins {
			breakMins = sessionMins
		}
		net += sessionMins - breakMins
	}
	return net
}

// ComputeBreakMinutes sums break durations, clamping a running break at now.
func (d *AttendanceDay) ComputeBreakMinutes(now time.Time) int {
	total := 0
	for _, b := range d.Breaks {
		end := now
		if b.EndedAt != nil {
			end = *b.EndedAt
		}
		if end.After(b.StartedAt) {
			total += int(end.Sub(b.StartedAt).Minutes())
		}
	}
	return total
}

// FirstCheckIn returns the first check-in timestamp of the day, nil on a
// fresh day.
func (d *AttendanceDay) FirstCheckIn() *time.Time {
	for _, ev := range d.Events {
		if ev.Type == CheckIn {
			t := ev.Timestamp
			return &t
		}
	}
	return nil
}

// LastCheckOut returns the last check-out timestamp, nil while a session
// is still open or on a fresh day.
func (d *AttendanceDay) LastCheckOut() *time.Time {
	for i := len(d.Events) - 1; i >= 0; i-- {
		if d.Events[i].Type == CheckOut {
			t := d.Events[i].Timestamp
			return &t
		}
	}
	return nil
}

func overlapMinutes(b BreakInterval, start, end, now time.Time) int {
	bEnd := now
	if b.EndedAt != nil {
		bEnd = *b.EndedAt
	}
	from := b.StartedAt
	if from.Before(start) {
		from = start
	}
	to := bEnd
	if to.After(end) {
		to = end
	}
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Minutes())
}
