package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/auth"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/lifecycle"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var insufficient *leave.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		BadRequest(w, err.Error(), map[string]string{
			"shortfall": fmt.Sprintf("%.1f", insufficient.Shortfall),
		})
		return
	}

	var invalidTransition *lifecycle.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		Conflict(w, err.Error())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrEmployeeNotActive),
		errors.Is(err, employee.ErrEmployeeNotActive):
		Forbidden(w, err.Error())

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrTerminationNotBegun),
		errors.Is(err, employee.ErrProbationNotElapsed):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrInvalidProbationDate):
		BadRequest(w, err.Error(), nil)

	// Shifts and holidays
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrNoDefaultShift):
		NotFound(w, "No default shift configured")
	case errors.Is(err, shift.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")

	// Attendance
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrNoOpenSession),
		errors.Is(err, attendance.ErrBreakAlreadyOpen),
		errors.Is(err, attendance.ErrNoOpenBreak),
		errors.Is(err, attendance.ErrInvalidSequence):
		Conflict(w, err.Error())

	// Leave
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrCompOffNotFound):
		NotFound(w, "Comp-off credit not found")
	case errors.Is(err, leave.ErrOverlapConflict),
		errors.Is(err, leave.ErrAlreadyProcessed),
		errors.Is(err, leave.ErrCancelAfterStart):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrLeaveTypeInactive),
		errors.Is(err, leave.ErrNoPolicyDefined),
		errors.Is(err, leave.ErrProofRequired),
		errors.Is(err, leave.ErrHalfDayRange),
		errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, leave.ErrZeroDayRequest),
		errors.Is(err, leave.ErrCarryForwardDisabled):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, database.ErrPersistenceFailure):
		ServiceUnavailable(w, "Storage is temporarily unavailable, try again")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
