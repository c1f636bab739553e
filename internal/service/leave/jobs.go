package leave

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
)

// CarryForwardSweep rolls unused balances of fromYear into fromYear+1 for
// every active employee and leave type. Individual failures are logged
// and skipped so one bad balance does not block the sweep.
func (s *BalanceService) CarryForwardSweep(ctx context.Context, fromYear int) (int, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	types, err := s.LeaveTypeRepository.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, emp := range employees {
		for _, lt := range types {
			if !lt.CarryForward.Enabled {
				continue
			}
			if _, err := s.ApplyCarryForward(ctx, emp.ID, lt.ID, fromYear); err != nil {
				if errors.Is(err, leave.ErrBalanceNotFound) {
					continue
				}
				slog.Error("carry-forward sweep failed for balance",
					"employee_id", emp.ID, "leave_type_id", lt.ID, "from_year", fromYear, "error", err)
				continue
			}
			applied++
		}
	}
	return applied, nil
}
