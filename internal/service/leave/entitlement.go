package leave

import (
	"time"

	"github.com/clockwise-hr/clockwise-backend-go/internal/domain/leave"
)

type EntitlementCalculator struct {
}

func NewEntitlementCalculator() *EntitlementCalculator {
	return &EntitlementCalculator{}
}

// Entitlement computes how many days an employee is entitled to for the
// given year under the leave type's accrual policy. Yearly accrual
// grants the full amount up front; monthly accrual grants one twelfth
// per month elapsed, starting from the hire month in the hire year.
func (c *EntitlementCalculator) Entitlement(lt leave.LeaveType, hireDate time.Time, year int, asOf time.Time) (float64, error) {
	if !lt.Accrual.Enabled || lt.Accrual.DaysPerYear <= 0 {
		return 0, leave.ErrNoPolicyDefined
	}

	var entitled float64
	switch lt.Accrual.Frequency {
	case leave.AccrualMonthly:
		entitled = lt.Accrual.DaysPerYear / 12 * float64(c.accruedMonths(hireDate, year, asOf))
	default:
		entitled = lt.Accrual.DaysPerYear
		if hireDate.Year() == year {
			// Pro-rate the hire year by remaining full months,
			// counting the hire month itself.
			entitled = lt.Accrual.DaysPerYear / 12 * float64(13-int(hireDate.Month()))
		}
	}

	if lt.Accrual.Cap > 0 && entitled > lt.Accrual.Cap {
		entitled = lt.Accrual.Cap
	}
	return entitled, nil
}

// accruedMonths counts the months of the given year that have started as
// of asOf, clipped at the hire month for the hire year. Past years are
// full; future years have accrued nothing.
func (c *EntitlementCalculator) accruedMonths(hireDate time.Time, year int, asOf time.Time) int {
	startMonth := 1
	if hireDate.Year() > year {
		return 0
	}
	if hireDate.Year() == year {
		startMonth = int(hireDate.Month())
	}

	endMonth := 12
	switch {
	case asOf.Year() < year:
		return 0
	case asOf.Year() == year:
		endMonth = int(asOf.Month())
	}

	if endMonth < startMonth {
		return 0
	}
	return endMonth - startMonth + 1
}
