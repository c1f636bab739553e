package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmployeeNotActive    = errors.New("employee is not in an active state")
	ErrEmployeeCodeExists   = errors.New("employee code already exists")
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrTerminationNotBegun  = errors.New("termination has not been initiated")
	ErrProbationNotElapsed  = errors.New("probation end date has not been reached")
	ErrInvalidProbationDate = errors.New("new probation end date must be after the current one")
)
