package shift

import "errors"

var (
	ErrShiftNotFound   = errors.New("shift not found")
	ErrNoDefaultShift  = errors.New("no default shift configured")
	ErrHolidayNotFound = errors.New("holiday not found")
)
