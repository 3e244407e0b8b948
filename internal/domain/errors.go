package domain

import "errors"

// Sentinel errors shared across use cases and adapters.
var (
	// ErrInvalidLoanParameters signals a loan with a non-positive principal
	// or term (or a negative rate). It is fatal to that one loan's
	// computation only: the aggregation degrades the loan's contribution to
	// zero and continues.
	ErrInvalidLoanParameters = errors.New("invalid loan parameters")

	// ErrQuoteSourceUnavailable signals a network or parse failure while
	// talking to the external quote source. Non-fatal: the price cache is
	// left untouched and aggregation proceeds with last-known prices.
	ErrQuoteSourceUnavailable = errors.New("quote source unavailable")

	// ErrProfileNotFound signals that no investor profile exists for the
	// requested ID.
	ErrProfileNotFound = errors.New("investor profile not found")
)
