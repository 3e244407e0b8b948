package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote is the cached price of one tracked crypto symbol in both
// currencies. Quotes are process-wide shared state: one row per symbol
// (symbol is the natural key), upserted on every refresh, read by every
// profile's crypto valuation.
type PriceQuote struct {
	Symbol   string
	PriceUSD decimal.Decimal
	PriceEUR decimal.Decimal
	// UsedFallbackRate marks quotes converted with the hardcoded USD->EUR
	// rate because the conversion-rate source was unavailable.
	UsedFallbackRate bool
	UpdatedAt        time.Time
}

// IsFresh reports whether the quote is younger than maxAge at the given time.
func (q *PriceQuote) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(q.UpdatedAt) <= maxAge
}
