package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingCategory is the asset category a plain holding lot belongs to.
type HoldingCategory string

const (
	HoldingCategoryLiquidity  HoldingCategory = "LIQUIDITY"
	HoldingCategoryInvestment HoldingCategory = "INVESTMENT"
	HoldingCategoryOtherAsset HoldingCategory = "OTHER_ASSET"
)

// HoldingLot is one user-declared position with a fixed declared amount:
// a liquidity account, a financial-investment line or an "other asset" line.
// Both regulated wrappers (Livret A, PEA, ...) and free-form user-named lines
// are stored this way; only the label differs.
type HoldingLot struct {
	ID       uuid.UUID       `json:"id"`
	Category HoldingCategory `json:"category"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
}

// CryptoLot is a holding whose value is derived from a live quote instead of
// being declared: the user owns a quantity of a symbol. The price fields are
// enrichment written back by the aggregation for display; quantity is the
// only ground truth.
type CryptoLot struct {
	ID       uuid.UUID       `json:"id"`
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`

	// Enrichment, overwritten whenever a fresh price is available.
	CurrentPrice    decimal.Decimal `json:"current_price"`
	CalculatedValue decimal.Decimal `json:"calculated_value"`
	PricedAt        time.Time       `json:"priced_at"`
}

// RealEstateEntry is a declared property. Its net contribution to wealth is
// the declared market value minus the remaining principal of the linked loan,
// when one exists.
type RealEstateEntry struct {
	ID            uuid.UUID       `json:"id"`
	Label         string          `json:"label"`
	DeclaredValue decimal.Decimal `json:"declared_value"`
	LoanID        *uuid.UUID      `json:"loan_id,omitempty"`
}
