package amortization

import (
	"strings"
	"time"
)

// startDateLayouts are the formats loan start dates arrive in. Month-only
// inputs resolve to the first of the month.
var startDateLayouts = []string{
	"2006-01-02", // full date
	"2006-01",    // year-month
	"01/2006",    // month/year
}

// ParseStartDate parses a loan start date from the formats users enter.
// Malformed or empty input falls back to today (the loan is treated as
// freshly originated); the second return value reports whether the fallback
// was taken so callers can log it.
func ParseStartDate(raw string, today time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return today, true
	}

	for _, layout := range startDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, false
		}
	}

	return today, true
}
