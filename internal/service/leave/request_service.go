package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/notification"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/clockwise-backend-go/internal/service/calendar"
)

// RequestService implements leave.LeaveRequestService. Submission
// reserves days immediately; approval only flips status, and every
// negative outcome releases the reservation.
type RequestService struct {
	runTx database.TxRunner
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	balances *BalanceService
	calendar *calendar.Service
	notifier notification.Dispatcher

	now func() time.Time
}

func NewRequestService(
	runTx database.TxRunner,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	balances *BalanceService,
	calendarService *calendar.Service,
	notifier notification.Dispatcher,
) *RequestService {
	return &RequestService{
		runTx:                  runTx,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		balances:               balances,
		calendar:               calendarService,
		notifier:               notifier,
		now:                    time.Now,
	}
}

func (s *RequestService) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if !emp.State.IsActive() {
		return leave.RequestResponse{}, employee.ErrEmployeeNotActive
	}

	lt, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if !lt.IsActive {
		return leave.RequestResponse{}, leave.ErrLeaveTypeInactive
	}
	if lt.RequiresProof && (req.ProofURL == nil || *req.ProofURL == "") {
		return leave.RequestResponse{}, leave.ErrProofRequired
	}

	from, _ := time.Parse("2006-01-02", req.FromDate)
	to, _ := time.Parse("2006-01-02", req.ToDate)

	totalDays, err := s.calendar.CountLeaveDays(ctx, from, to, req.IsHalfDay, lt.CountWeekends, lt.CountHolidays)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if totalDays == 0 {
		return leave.RequestResponse{}, leave.ErrZeroDayRequest
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, from.Location())

	request := leave.LeaveRequest{
		ID:          uuid.New().String(),
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		FromDate:    from,
		ToDate:      to,
		IsHalfDay:   req.IsHalfDay,
		TotalDays:   totalDays,
		Reason:      req.Reason,
		ProofURL:    req.ProofURL,
		IsBackdate:  from.Before(today),
		Status:      leave.StatusPending,
		CreatedAt:   now,
	}
	if req.HalfType != nil {
		ht := leave.HalfDayType(*req.HalfType)
		request.HalfType = &ht
	}

	err = s.runTx(ctx, func(ctx context.Context) error {
		// The overlap check shares the insert's transaction so two
		// concurrent submissions cannot both pass it.
		overlap, err := s.LeaveRequestRepository.HasOverlap(ctx, req.EmployeeID, from, to, "")
		if err != nil {
			return fmt.Errorf("failed to check overlap: %w", err)
		}
		if overlap {
			return leave.ErrOverlapConflict
		}

		created, err := s.LeaveRequestRepository.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		request = created

		compOffDays, err := s.balances.Reserve(ctx, request.EmployeeID, request.LeaveTypeID, request.ID, from.Year(), totalDays, req.UseCompOff)
		if err != nil {
			return err
		}
		if compOffDays > 0 {
			request.CompOffDays = compOffDays
			if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
				return fmt.Errorf("failed to record comp-off usage: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.notifier.Dispatch(ctx, notification.Event{
		Type:       notification.TypeLeaveRequested,
		EmployeeID: request.EmployeeID,
		Message:    fmt.Sprintf("%s requested %.1f days of %s", emp.FullName, totalDays, lt.Name),
		OccurredAt: now,
	})

	return leave.ToRequestResponse(request), nil
}

func (s *RequestService) Get(ctx context.Context, requestID string) (leave.RequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return leave.ToRequestResponse(request), nil
}

func (s *RequestService) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.RequestResponse, error) {
	requests, err := s.LeaveRequestRepository.ListByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, leave.ToRequestResponse(request))
	}
	return responses, nil
}

// Approve flips a pending request to approved. The days were reserved
// at submission, so the balance does not move here.
func (s *RequestService) Approve(ctx context.Context, requestID, approverID string) (leave.RequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.RequestResponse{}, leave.ErrAlreadyProcessed
	}

	now := s.now()
	request.Status = leave.StatusApproved
	request.ApprovedBy = &approverID
	request.ApprovedAt = &now

	if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	s.notifier.Dispatch(ctx, notification.Event{
		Type:       notification.TypeLeaveApproved,
		EmployeeID: request.EmployeeID,
		Message:    fmt.Sprintf("leave request for %s was approved", request.FromDate.Format("2006-01-02")),
		OccurredAt: now,
	})
	return leave.ToRequestResponse(request), nil
}

func (s *RequestService) Reject(ctx context.Context, requestID, approverID, reason string) (leave.RequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.RequestResponse{}, leave.ErrAlreadyProcessed
	}

	now := s.now()
	request.Status = leave.StatusRejected
	request.ApprovedBy = &approverID
	request.RejectionReason = &reason

	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.balances.Release(ctx, request.EmployeeID, request.LeaveTypeID, request.ID, request.FromDate.Year(), request.TotalDays-request.CompOffDays); err != nil {
			return err
		}
		if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.notifier.Dispatch(ctx, notification.Event{
		Type:       notification.TypeLeaveRejected,
		EmployeeID: request.EmployeeID,
		Message:    fmt.Sprintf("leave request for %s was rejected", request.FromDate.Format("2006-01-02")),
		OccurredAt: now,
	})
	return leave.ToRequestResponse(request), nil
}

// Cancel releases the reservation. A pending request cancels any time;
// an approved one only before its first day.
func (s *RequestService) Cancel(ctx context.Context, requestID, actorID string, byAdmin bool) (leave.RequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	switch request.Status {
	case leave.StatusPending:
	case leave.StatusApproved:
		now := s.now()
		startOfLeave := time.Date(request.FromDate.Year(), request.FromDate.Month(), request.FromDate.Day(), 0, 0, 0, 0, request.FromDate.Location())
		if !now.Before(startOfLeave) {
			return leave.RequestResponse{}, leave.ErrCancelAfterStart
		}
	default:
		return leave.RequestResponse{}, leave.ErrAlreadyProcessed
	}

	now := s.now()
	request.Status = leave.StatusCancelled
	if byAdmin {
		request.Status = leave.StatusCancelledByAdmin
	}
	request.CancelledBy = &actorID
	request.CancelledAt = &now

	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.balances.Release(ctx, request.EmployeeID, request.LeaveTypeID, request.ID, request.FromDate.Year(), request.TotalDays-request.CompOffDays); err != nil {
			return err
		}
		if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.notifier.Dispatch(ctx, notification.Event{
		Type:       notification.TypeLeaveCancelled,
		EmployeeID: request.EmployeeID,
		Message:    fmt.Sprintf("leave request for %s was cancelled", request.FromDate.Format("2006-01-02")),
		OccurredAt: now,
	})
	return leave.ToRequestResponse(request), nil
}
