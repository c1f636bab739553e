package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn = errors.New("you have already checked in")
	ErrNotCheckedIn     = errors.New("you have not checked in yet")
	ErrNoOpenSession    = errors.New("no open attendance session")
	ErrBreakAlreadyOpen = errors.New("a break is already open")
	ErrNoOpenBreak      = errors.New("no open break")
	ErrInvalidSequence  = errors.New("event timestamp is out of order")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
