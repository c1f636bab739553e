package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/clockwise-backend-go/internal/pkg/database"
)

// BalanceService implements leave.LeaveBalanceService and owns the
// reserve/release primitives the request workflow builds on.
type BalanceService struct {
	runTx database.TxRunner
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
	leave.CompOffRepository
	employee.EmployeeRepository
	calculator *EntitlementCalculator

	// now is swappable in tests.
	now func() time.Time
}

func NewBalanceService(
	runTx database.TxRunner,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	compOffRepository leave.CompOffRepository,
	employeeRepository employee.EmployeeRepository,
	calculator *EntitlementCalculator,
) *BalanceService {
	return &BalanceService{
		runTx:                  runTx,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveBalanceRepository: leaveBalanceRepository,
		CompOffRepository:      compOffRepository,
		EmployeeRepository:     employeeRepository,
		calculator:             calculator,
		now:                    time.Now,
	}
}

// GetBalance returns the balance for (employee, leaveType, year),
// materializing it from the accrual policy on first access.
func (s *BalanceService) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.BalanceResponse, error) {
	balance, err := s.getOrCreate(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return leave.ToBalanceResponse(balance), nil
}

func (s *BalanceService) getOrCreate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	balance, err := s.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, leave.ErrBalanceNotFound) {
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	lt, err := s.LeaveTypeRepository.GetByID(ctx, leaveTypeID)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	if !lt.IsActive {
		return leave.LeaveBalance{}, leave.ErrLeaveTypeInactive
	}

	entitled, err := s.calculator.Entitlement(lt, emp.HireDate, year, s.now())
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	created, err := s.LeaveBalanceRepository.Create(ctx, leave.LeaveBalance{
		ID:          uuid.New().String(),
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        year,
		Entitled:    entitled,
	})
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	slog.Info("materialized leave balance",
		"employee_id", employeeID,
		"leave_type_id", leaveTypeID,
		"year", year,
		"entitled", entitled,
	)
	return created, nil
}

func (s *BalanceService) ListBalances(ctx context.Context, employeeID string, year int) ([]leave.BalanceResponse, error) {
	balances, err := s.LeaveBalanceRepository.ListByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.ToBalanceResponse(b))
	}
	return responses, nil
}

// Adjust grants (positive) or revokes (negative) additional days.
func (s *BalanceService) Adjust(ctx context.Context, employeeID, leaveTypeID string, year int, days float64) (leave.BalanceResponse, error) {
	if _, err := s.getOrCreate(ctx, employeeID, leaveTypeID, year); err != nil {
		return leave.BalanceResponse{}, err
	}

	var updated leave.LeaveBalance
	err := s.runTx(ctx, func(ctx context.Context) error {
		balance, err := s.LeaveBalanceRepository.GetForUpdate(ctx, employeeID, leaveTypeID, year)
		if err != nil {
			return fmt.Errorf("failed to lock leave balance: %w", err)
		}
		balance.Additional += days
		if err := s.LeaveBalanceRepository.UpdateAmounts(ctx, balance); err != nil {
			return fmt.Errorf("failed to update leave balance: %w", err)
		}
		updated = balance
		return nil
	})
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return leave.ToBalanceResponse(updated), nil
}

// Reserve consumes days for a request at submission time. Comp-off
// credits are spent first when requested, oldest first and only whole
// credits; the remainder comes out of the balance under a row lock.
// Returns the comp-off portion of the reservation.
func (s *BalanceService) Reserve(ctx context.Context, employeeID, leaveTypeID, requestID string, year int, days float64, useCompOff bool) (float64, error) {
	if _, err := s.getOrCreate(ctx, employeeID, leaveTypeID, year); err != nil {
		return 0, err
	}

	var compOffDays float64
	err := s.runTx(ctx, func(ctx context.Context) error {
		compOffDays = 0
		remaining := days

		if useCompOff {
			credits, err := s.CompOffRepository.ListAvailable(ctx, employeeID, s.now())
			if err != nil {
				return fmt.Errorf("failed to list comp-off credits: %w", err)
			}
			for _, credit := range credits {
				if credit.Days > remaining {
					continue
				}
				if err := s.CompOffRepository.MarkUsed(ctx, credit.ID, requestID); err != nil {
					return fmt.Errorf("failed to mark comp-off credit used: %w", err)
				}
				compOffDays += credit.Days
				remaining -= credit.Days
				if remaining == 0 {
					break
				}
			}
		}

		if remaining == 0 {
			return nil
		}

		balance, err := s.LeaveBalanceRepository.GetForUpdate(ctx, employeeID, leaveTypeID, year)
		if err != nil {
			return fmt.Errorf("failed to lock leave balance: %w", err)
		}
		if available := balance.Available(); available < remaining {
			return &leave.InsufficientBalanceError{Shortfall: remaining - available}
		}
		balance.Used += remaining
		if err := s.LeaveBalanceRepository.UpdateAmounts(ctx, balance); err != nil {
			return fmt.Errorf("failed to update leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return compOffDays, nil
}

// Release returns a reservation in full: the balance portion goes back
// to Used and every comp-off credit held by the request is freed.
func (s *BalanceService) Release(ctx context.Context, employeeID, leaveTypeID, requestID string, year int, balanceDays float64) error {
	return s.runTx(ctx, func(ctx context.Context) error {
		if balanceDays > 0 {
			balance, err := s.LeaveBalanceRepository.GetForUpdate(ctx, employeeID, leaveTypeID, year)
			if err != nil {
				return fmt.Errorf("failed to lock leave balance: %w", err)
			}
			balance.Used -= balanceDays
			if balance.Used < 0 {
				balance.Used = 0
			}
			if err := s.LeaveBalanceRepository.UpdateAmounts(ctx, balance); err != nil {
				return fmt.Errorf("failed to update leave balance: %w", err)
			}
		}
		if err := s.CompOffRepository.ReleaseByRequest(ctx, requestID); err != nil {
			return fmt.Errorf("failed to release comp-off credits: %w", err)
		}
		return nil
	})
}

// ApplyCarryForward rolls the unused balance of fromYear into the next
// year, capped at the policy maximum. The carried amount gets an expiry
// date when the policy sets ExpiryMonths.
func (s *BalanceService) ApplyCarryForward(ctx context.Context, employeeID, leaveTypeID string, fromYear int) (leave.BalanceResponse, error) {
	lt, err := s.LeaveTypeRepository.GetByID(ctx, leaveTypeID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if !lt.CarryForward.Enabled {
		return leave.BalanceResponse{}, leave.ErrCarryForwardDisabled
	}

	if _, err := s.getOrCreate(ctx, employeeID, leaveTypeID, fromYear+1); err != nil {
		return leave.BalanceResponse{}, err
	}

	var updated leave.LeaveBalance
	err = s.runTx(ctx, func(ctx context.Context) error {
		source, err := s.LeaveBalanceRepository.GetForUpdate(ctx, employeeID, leaveTypeID, fromYear)
		if err != nil {
			return fmt.Errorf("failed to lock source balance: %w", err)
		}

		carry := source.Available()
		if carry < 0 {
			carry = 0
		}
		if lt.CarryForward.MaxDays > 0 && carry > lt.CarryForward.MaxDays {
			carry = lt.CarryForward.MaxDays
		}

		target, err := s.LeaveBalanceRepository.GetForUpdate(ctx, employeeID, leaveTypeID, fromYear+1)
		if err != nil {
			return fmt.Errorf("failed to lock target balance: %w", err)
		}

		target.CarriedForward = carry
		target.CarryForwardExpiry = nil
		if lt.CarryForward.ExpiryMonths > 0 {
			expiry := time.Date(fromYear+1, 1, 1, 0, 0, 0, 0, time.UTC).
				AddDate(0, lt.CarryForward.ExpiryMonths, 0)
			target.CarryForwardExpiry = &expiry
		}

		if err := s.LeaveBalanceRepository.UpdateAmounts(ctx, target); err != nil {
			return fmt.Errorf("failed to update target balance: %w", err)
		}
		updated = target
		return nil
	})
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	slog.Info("applied carry-forward",
		"employee_id", employeeID,
		"leave_type_id", leaveTypeID,
		"from_year", fromYear,
		"carried", updated.CarriedForward,
	)
	return leave.ToBalanceResponse(updated), nil
}

// ExpireCarryForward drops the unused carried portion of every balance
// whose expiry date passed. Days already spent stay spent.
func (s *BalanceService) ExpireCarryForward(ctx context.Context, asOf time.Time) (int, error) {
	expired, err := s.LeaveBalanceRepository.ListExpiredCarryForward(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired carry-forwards: %w", err)
	}

	touched := 0
	for _, candidate := range expired {
		err := s.runTx(ctx, func(ctx context.Context) error {
			balance, err := s.LeaveBalanceRepository.GetForUpdate(ctx, candidate.EmployeeID, candidate.LeaveTypeID, candidate.Year)
			if err != nil {
				return fmt.Errorf("failed to lock leave balance: %w", err)
			}

			drop := balance.CarriedForward
			if available := balance.Available(); available < drop {
				drop = available
			}
			if drop < 0 {
				drop = 0
			}
			balance.CarriedForward -= drop
			balance.CarryForwardExpiry = nil

			return s.LeaveBalanceRepository.UpdateAmounts(ctx, balance)
		})
		if err != nil {
			slog.Error("failed to expire carry-forward",
				"employee_id", candidate.EmployeeID,
				"leave_type_id", candidate.LeaveTypeID,
				"year", candidate.Year,
				"error", err,
			)
			continue
		}
		touched++
	}
	return touched, nil
}

func (s *BalanceService) GrantCompOff(ctx context.Context, req leave.GrantCompOffRequest) (leave.CompOffCredit, error) {
	if req.Days <= 0 {
		return leave.CompOffCredit{}, fmt.Errorf("comp-off days must be positive, got %v", req.Days)
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.CompOffCredit{}, err
	}

	credit, err := s.CompOffRepository.Create(ctx, leave.CompOffCredit{
		ID:         uuid.New().String(),
		EmployeeID: req.EmployeeID,
		EarnedDate: req.EarnedDate,
		Days:       req.Days,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		return leave.CompOffCredit{}, fmt.Errorf("failed to create comp-off credit: %w", err)
	}
	return credit, nil
}
