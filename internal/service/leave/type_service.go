package leave

import (
	"context"

	"github.com/google/uuid"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
)

// TypeService implements leave.LeaveTypeService.
type TypeService struct {
	types leave.LeaveTypeRepository
}

func NewTypeService(types leave.LeaveTypeRepository) *TypeService {
	return &TypeService{types: types}
}

func (s *TypeService) CreateType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	created, err := s.types.Create(ctx, leave.LeaveType{
		ID:          uuid.New().String(),
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Accrual: leave.AccrualPolicy{
			Enabled:     req.AccrualEnabled,
			Frequency:   req.AccrualFrequency,
			DaysPerYear: req.DaysPerYear,
			Cap:         req.AccrualCap,
		},
		CarryForward: leave.CarryForwardPolicy{
			Enabled:      req.CarryForwardEnabled,
			MaxDays:      req.CarryForwardMaxDays,
			ExpiryMonths: req.CarryForwardExpiryMonths,
		},
		Encashment: leave.EncashmentPolicy{
			Enabled: req.EncashmentEnabled,
			MaxDays: req.EncashmentMaxDays,
		},
		RequiresProof: req.RequiresProof,
		CountWeekends: req.CountWeekends,
		CountHolidays: req.CountHolidays,
		IsActive:      true,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.ToLeaveTypeResponse(created), nil
}

func (s *TypeService) GetType(ctx context.Context, id string) (leave.LeaveTypeResponse, error) {
	lt, err := s.types.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.ToLeaveTypeResponse(lt), nil
}

func (s *TypeService) ListTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := s.types.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		out = append(out, leave.ToLeaveTypeResponse(lt))
	}
	return out, nil
}
