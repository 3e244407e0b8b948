package amortization

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleEntry is one period of an amortization schedule.
type ScheduleEntry struct {
	Month            int
	DueDate          time.Time
	Payment          decimal.Decimal
	InterestPart     decimal.Decimal
	CapitalPart      decimal.Decimal
	RemainingCapital decimal.Decimal
}

// Schedule generates the full month-by-month amortization table. Each period
// pays the interest accrued on the outstanding balance; the rest of the
// payment amortizes capital. The final period absorbs the rounding drift so
// the balance lands exactly on zero.
func Schedule(principal, annualRatePct decimal.Decimal, termMonths int, startDate time.Time) ([]ScheduleEntry, error) {
	payment, err := MonthlyPayment(principal, annualRatePct, termMonths)
	if err != nil {
		return nil, err
	}

	rate := decimal.NewFromFloat(monthlyRate(annualRatePct))
	remaining := principal
	schedule := make([]ScheduleEntry, 0, termMonths)

	for month := 1; month <= termMonths; month++ {
		interest := remaining.Mul(rate).Round(2)
		capital := payment.Sub(interest)

		// Last period: repay whatever is left, rounding drift included.
		if month == termMonths || capital.GreaterThan(remaining) {
			capital = remaining
		}

		remaining = remaining.Sub(capital)

		schedule = append(schedule, ScheduleEntry{
			Month:            month,
			DueDate:          startDate.AddDate(0, month-1, 0),
			Payment:          capital.Add(interest),
			InterestPart:     interest,
			CapitalPart:      capital,
			RemainingCapital: remaining,
		})

		if remaining.IsZero() {
			break
		}
	}

	return schedule, nil
}
