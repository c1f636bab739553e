package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/shift"
)

type ServiceImpl struct {
	shiftRepo   shift.ShiftRepository
	holidayRepo shift.HolidayRepository
}

func NewScheduleService(shiftRepo shift.ShiftRepository, holidayRepo shift.HolidayRepository) shift.ScheduleService {
	return &ServiceImpl{
		shiftRepo:   shiftRepo,
		holidayRepo: holidayRepo,
	}
}

func (s *ServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	start, _ := time.Parse("15:04", req.StartTime)
	end, _ := time.Parse("15:04", req.EndTime)

	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		ID:        uuid.New().String(),
		Name:      req.Name,
		StartTime: start,
		EndTime:   end,
		Weekdays:  req.WeekdayBits(),
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.ToShiftResponse(created), nil
}

func (s *ServiceImpl) ListShifts(ctx context.Context) ([]shift.ShiftResponse, error) {
	shifts, err := s.shiftRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		out = append(out, shift.ToShiftResponse(sh))
	}
	return out, nil
}

func (s *ServiceImpl) CreateHoliday(ctx context.Context, req shift.CreateHolidayRequest) (shift.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.HolidayResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	created, err := s.holidayRepo.Create(ctx, shift.Holiday{
		ID:   uuid.New().String(),
		Date: date,
		Name: req.Name,
	})
	if err != nil {
		return shift.HolidayResponse{}, err
	}
	return shift.ToHolidayResponse(created), nil
}

func (s *ServiceImpl) ListHolidays(ctx context.Context, from, to time.Time) ([]shift.HolidayResponse, error) {
	holidays, err := s.holidayRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]shift.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, shift.ToHolidayResponse(h))
	}
	return out, nil
}
