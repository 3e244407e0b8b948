package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanKind distinguishes standalone consumer credit from loans attached to a
// declared asset (a mortgage on a real-estate entry). The distinction drives
// the liability split in the aggregation: linked loans are netted against
// their asset and must never be counted in the standalone liabilities total.
type LoanKind string

const (
	LoanKindStandalone    LoanKind = "STANDALONE"
	LoanKindLinkedToAsset LoanKind = "LINKED_TO_ASSET"
)

// LoanRecord represents one credit declared by the user, mortgage-linked or
// standalone. The derived fields are recomputed outputs of every aggregation
// pass and are never edited independently.
type LoanRecord struct {
	ID            uuid.UUID       `json:"id"`
	Kind          LoanKind        `json:"kind"`
	Label         string          `json:"label"`
	Principal     decimal.Decimal `json:"principal"`
	AnnualRatePct decimal.Decimal `json:"annual_rate_pct"`
	TermMonths    int             `json:"term_months"`
	// StartDate is kept as the raw user input ("2024-10", "2024-10-15" or
	// "10/2024"); parsing happens at computation time with a fallback to
	// "today" for malformed values.
	StartDate     string     `json:"start_date"`
	LinkedAssetID *uuid.UUID `json:"linked_asset_id,omitempty"`

	// Derived fields, overwritten on every recalculation.
	MonthlyPayment     decimal.Decimal `json:"monthly_payment"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
	CapitalRepaid      decimal.Decimal `json:"capital_repaid"`
	TotalCost          decimal.Decimal `json:"total_cost"`
}

// Validate ensures the loan adheres to domain rules.
func (l *LoanRecord) Validate() error {
	if l.Principal.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidLoanParameters
	}
	if l.TermMonths <= 0 {
		return ErrInvalidLoanParameters
	}
	if l.AnnualRatePct.IsNegative() {
		return ErrInvalidLoanParameters
	}

	// The kind tag and the asset reference must agree.
	switch l.Kind {
	case LoanKindLinkedToAsset:
		if l.LinkedAssetID == nil {
			return errors.New("asset-linked loan must reference an asset")
		}
	case LoanKindStandalone:
		if l.LinkedAssetID != nil {
			return errors.New("standalone loan must not reference an asset")
		}
	default:
		return errors.New("unknown loan kind")
	}

	return nil
}
