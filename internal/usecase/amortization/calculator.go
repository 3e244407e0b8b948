// Package amortization implements fixed-rate, fixed-term, fully-amortizing
// loan math: monthly payment, remaining balance as of an arbitrary date, and
// the full repayment schedule. All functions are pure.
package amortization

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jepargne/patrimoine-backend/internal/domain"
)

// nearZeroRate guards the annuity formula against division by a vanishing
// monthly rate: below this threshold the loan is treated as interest-free.
const nearZeroRate = 1e-9

// monthlyRate converts an annual nominal rate in percent (e.g. 3.35) to the
// monthly decimal rate used by the amortization formulas.
func monthlyRate(annualRatePct decimal.Decimal) float64 {
	return annualRatePct.InexactFloat64() / 100 / 12
}

// validateLoan rejects the parameter combinations no formula can price.
func validateLoan(principal, annualRatePct decimal.Decimal, termMonths int) error {
	if principal.LessThanOrEqual(decimal.Zero) || termMonths <= 0 || annualRatePct.IsNegative() {
		return domain.ErrInvalidLoanParameters
	}
	return nil
}

// MonthlyPayment computes the fixed monthly payment of a loan using the
// standard annuity formula:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// where P is the principal, r the monthly rate and n the term in months.
// Interest-free loans degrade to the linear case payment = P / n.
func MonthlyPayment(principal, annualRatePct decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if err := validateLoan(principal, annualRatePct, termMonths); err != nil {
		return decimal.Zero, err
	}

	r := monthlyRate(annualRatePct)
	if r < nearZeroRate {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2), nil
	}

	// The power is computed in float64 and the result converted back to
	// decimal for monetary use.
	factor := math.Pow(1+r, float64(termMonths))
	payment := principal.InexactFloat64() * r * factor / (factor - 1)

	return decimal.NewFromFloat(payment).Round(2), nil
}

// ElapsedMonths returns the number of whole months between start and asOf.
// A month only counts once its day-of-month has been reached. Never negative:
// a loan starting in the future has zero elapsed months.
func ElapsedMonths(start, asOf time.Time) int {
	months := (asOf.Year()-start.Year())*12 + int(asOf.Month()) - int(start.Month())
	if asOf.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// RemainingCapital computes the principal still outstanding as of asOfDate
// using the amortization balance formula:
//
//	remaining = P * ((1+r)^n - (1+r)^e) / ((1+r)^n - 1)
//
// with e the elapsed whole months clamped to [0, n]. Interest-free loans
// amortize linearly. The result is clamped to [0, principal] to absorb
// floating-point rounding.
func RemainingCapital(principal, annualRatePct decimal.Decimal, termMonths int, startDate, asOfDate time.Time) (decimal.Decimal, error) {
	if err := validateLoan(principal, annualRatePct, termMonths); err != nil {
		return decimal.Zero, err
	}

	elapsed := ElapsedMonths(startDate, asOfDate)
	if elapsed > termMonths {
		elapsed = termMonths
	}

	r := monthlyRate(annualRatePct)
	var remaining float64
	if r < nearZeroRate {
		remaining = principal.InexactFloat64() * (1 - float64(elapsed)/float64(termMonths))
	} else {
		fullTerm := math.Pow(1+r, float64(termMonths))
		toDate := math.Pow(1+r, float64(elapsed))
		remaining = principal.InexactFloat64() * (fullTerm - toDate) / (fullTerm - 1)
	}

	result := decimal.NewFromFloat(remaining).Round(2)
	if result.IsNegative() {
		return decimal.Zero, nil
	}
	if result.GreaterThan(principal) {
		return principal, nil
	}
	return result, nil
}

// CreditDetails are the derived figures of one loan as of a given date.
type CreditDetails struct {
	MonthlyPayment   decimal.Decimal
	RemainingCapital decimal.Decimal
	CapitalRepaid    decimal.Decimal
	// TotalCost is the interest paid over the full term
	// (payment * term - principal); a property of the loan, not a balance,
	// so it does not depend on the as-of date.
	TotalCost decimal.Decimal
}

// ComputeCreditDetails derives all loan figures in one call. The start date
// is the raw user input; a malformed or missing value falls back to asOfDate
// (zero elapsed months, loan treated as freshly originated) instead of
// failing the computation.
func ComputeCreditDetails(principal, annualRatePct decimal.Decimal, termMonths int, rawStartDate string, asOfDate time.Time) (CreditDetails, error) {
	payment, err := MonthlyPayment(principal, annualRatePct, termMonths)
	if err != nil {
		return CreditDetails{}, err
	}

	startDate, _ := ParseStartDate(rawStartDate, asOfDate)

	remaining, err := RemainingCapital(principal, annualRatePct, termMonths, startDate, asOfDate)
	if err != nil {
		return CreditDetails{}, err
	}

	return CreditDetails{
		MonthlyPayment:   payment,
		RemainingCapital: remaining,
		CapitalRepaid:    principal.Sub(remaining),
		TotalCost:        payment.Mul(decimal.NewFromInt(int64(termMonths))).Sub(principal),
	}, nil
}
