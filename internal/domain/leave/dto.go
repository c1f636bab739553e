package leave

import (
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	EmployeeID  string
	LeaveTypeID string
	FromDate    string
	ToDate      string
	IsHalfDay   bool
	HalfType    *string
	Reason      string
	ProofURL    *string
	// UseCompOff applies available comp-off credits before the balance.
	UseCompOff bool
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{Field: "leave_type_id", Message: "leave_type_id is required"})
	}

	from, okFrom := validator.IsValidDate(r.FromDate)
	if !okFrom {
		errs = append(errs, validator.ValidationError{Field: "from_date", Message: "from_date must be YYYY-MM-DD"})
	}
	to, okTo := validator.IsValidDate(r.ToDate)
	if !okTo {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "to_date must be YYYY-MM-DD"})
	}
	if r.IsHalfDay {
		if r.HalfType == nil || (*r.HalfType != string(HalfDayMorning) && *r.HalfType != string(HalfDayAfternoon)) {
			errs = append(errs, validator.ValidationError{Field: "half_type", Message: "half_type must be morning or afternoon"})
		}
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}

	// Range semantics surface as domain errors, not field errors.
	if from.After(to) {
		return ErrInvalidDateRange
	}
	if r.IsHalfDay && !from.Equal(to) {
		return ErrHalfDayRange
	}
	return nil
}

type BalanceResponse struct {
	EmployeeID         string  `json:"employee_id"`
	LeaveTypeID        string  `json:"leave_type_id"`
	LeaveTypeCode      string  `json:"leave_type_code,omitempty"`
	Year               int     `json:"year"`
	Entitled           float64 `json:"entitled"`
	CarriedForward     float64 `json:"carried_forward"`
	CarryForwardExpiry *string `json:"carry_forward_expiry,omitempty"`
	Additional         float64 `json:"additional"`
	Used               float64 `json:"used"`
	Available          float64 `json:"available"`
}

func ToBalanceResponse(b LeaveBalance) BalanceResponse {
	resp := BalanceResponse{
		EmployeeID:     b.EmployeeID,
		LeaveTypeID:    b.LeaveTypeID,
		Year:           b.Year,
		Entitled:       b.Entitled,
		CarriedForward: b.CarriedForward,
		Additional:     b.Additional,
		Used:           b.Used,
		Available:      b.Available(),
	}
	if b.LeaveTypeCode != nil {
		resp.LeaveTypeCode = *b.LeaveTypeCode
	}
	if b.CarryForwardExpiry != nil {
		expiry := b.CarryForwardExpiry.Format("2006-01-02")
		resp.CarryForwardExpiry = &expiry
	}
	return resp
}

type RequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name,omitempty"`
	FromDate      string  `json:"from_date"`
	ToDate        string  `json:"to_date"`
	IsHalfDay     bool    `json:"is_half_day"`
	HalfType      *string `json:"half_type,omitempty"`
	TotalDays     float64 `json:"total_days"`
	CompOffDays   float64 `json:"comp_off_days"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	IsBackdate    bool    `json:"is_backdate"`
	CreatedAt     string  `json:"created_at"`
}

func ToRequestResponse(req LeaveRequest) RequestResponse {
	resp := RequestResponse{
		ID:          req.ID,
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		FromDate:    req.FromDate.Format("2006-01-02"),
		ToDate:      req.ToDate.Format("2006-01-02"),
		IsHalfDay:   req.IsHalfDay,
		TotalDays:   req.TotalDays,
		CompOffDays: req.CompOffDays,
		Reason:      req.Reason,
		Status:      string(req.Status),
		IsBackdate:  req.IsBackdate,
		CreatedAt:   req.CreatedAt.Format(time.RFC3339),
	}
	if req.LeaveTypeName != nil {
		resp.LeaveTypeName = *req.LeaveTypeName
	}
	if req.HalfType != nil {
		ht := string(*req.HalfType)
		resp.HalfType = &ht
	}
	return resp
}

type CreateLeaveTypeRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`

	AccrualEnabled   bool    `json:"accrual_enabled"`
	AccrualFrequency string  `json:"accrual_frequency"`
	DaysPerYear      float64 `json:"days_per_year"`
	AccrualCap       float64 `json:"accrual_cap"`

	CarryForwardEnabled      bool    `json:"carry_forward_enabled"`
	CarryForwardMaxDays      float64 `json:"carry_forward_max_days"`
	CarryForwardExpiryMonths int     `json:"carry_forward_expiry_months"`

	EncashmentEnabled bool    `json:"encashment_enabled"`
	EncashmentMaxDays float64 `json:"encashment_max_days"`

	RequiresProof bool `json:"requires_proof"`
	CountWeekends bool `json:"count_weekends"`
	CountHolidays bool `json:"count_holidays"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code is required"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if r.AccrualEnabled {
		if r.AccrualFrequency != AccrualYearly && r.AccrualFrequency != AccrualMonthly {
			errs = append(errs, validator.ValidationError{Field: "accrual_frequency", Message: "accrual_frequency must be yearly or monthly"})
		}
		if r.DaysPerYear <= 0 {
			errs = append(errs, validator.ValidationError{Field: "days_per_year", Message: "days_per_year must be positive"})
		}
	}
	if r.CarryForwardEnabled && r.CarryForwardMaxDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "carry_forward_max_days", Message: "carry_forward_max_days must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveTypeResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`

	AccrualEnabled   bool    `json:"accrual_enabled"`
	AccrualFrequency string  `json:"accrual_frequency,omitempty"`
	DaysPerYear      float64 `json:"days_per_year"`

	CarryForwardEnabled bool `json:"carry_forward_enabled"`
	RequiresProof       bool `json:"requires_proof"`
	CountWeekends       bool `json:"count_weekends"`
	CountHolidays       bool `json:"count_holidays"`
	IsActive            bool `json:"is_active"`
}

func ToLeaveTypeResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                  lt.ID,
		Code:                lt.Code,
		Name:                lt.Name,
		Description:         lt.Description,
		AccrualEnabled:      lt.Accrual.Enabled,
		AccrualFrequency:    lt.Accrual.Frequency,
		DaysPerYear:         lt.Accrual.DaysPerYear,
		CarryForwardEnabled: lt.CarryForward.Enabled,
		RequiresProof:       lt.RequiresProof,
		CountWeekends:       lt.CountWeekends,
		CountHolidays:       lt.CountHolidays,
		IsActive:            lt.IsActive,
	}
}
