package employee

import (
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	PIN          string `json:"pin"`
	Role         string `json:"role"`
	ShiftID      string `json:"shift_id"`
	DepartmentID string `json:"department_id"`
	HireDate     string `json:"hire_date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code must be 3-20 uppercase letters, digits or dashes"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name is required"})
	}
	if len(r.PIN) < 4 {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "pin must be at least 4 characters"})
	}
	switch Role(r.Role) {
	case RoleAdmin, RoleManager, RoleEmployee:
	default:
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be admin, manager or employee"})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "hire_date must be YYYY-MM-DD"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID               string  `json:"id"`
	EmployeeCode     string  `json:"employee_code"`
	FullName         string  `json:"full_name"`
	Role             string  `json:"role"`
	State            string  `json:"state"`
	ShiftID          string  `json:"shift_id,omitempty"`
	ShiftName        *string `json:"shift_name,omitempty"`
	DepartmentID     string  `json:"department_id,omitempty"`
	DepartmentName   *string `json:"department_name,omitempty"`
	HireDate         string  `json:"hire_date"`
	ProbationEndDate *string `json:"probation_end_date,omitempty"`
	LastWorkingDay   *string `json:"last_working_day,omitempty"`
	ExitDate         *string `json:"exit_date,omitempty"`
}

func ToEmployeeResponse(emp Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             emp.ID,
		EmployeeCode:   emp.EmployeeCode,
		FullName:       emp.FullName,
		Role:           string(emp.Role),
		State:          string(emp.State),
		ShiftID:        emp.ShiftID,
		ShiftName:      emp.ShiftName,
		DepartmentID:   emp.DepartmentID,
		DepartmentName: emp.DepartmentName,
		HireDate:       emp.HireDate.Format("2006-01-02"),
	}
	formatDate := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		v := t.Format("2006-01-02")
		return &v
	}
	resp.ProbationEndDate = formatDate(emp.ProbationEndDate)
	resp.LastWorkingDay = formatDate(emp.LastWorkingDay)
	resp.ExitDate = formatDate(emp.ExitDate)
	return resp
}
