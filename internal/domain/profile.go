package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WealthSnapshot is the persisted aggregate on the owning profile. Every
// field is derived and overwritten on each recalculation; it must never drift
// from the sum of its inputs:
//
//	TotalAssets = Liquidities + Investments + RealEstateNet + Crypto + OtherAssets
//	NetWorth    = TotalAssets - Liabilities
type WealthSnapshot struct {
	Liquidities   decimal.Decimal
	Investments   decimal.Decimal
	RealEstateNet decimal.Decimal
	Crypto        decimal.Decimal
	OtherAssets   decimal.Decimal
	TotalAssets   decimal.Decimal
	Liabilities   decimal.Decimal
	NetWorth      decimal.Decimal
	CalculatedAt  time.Time
}

// InvestorProfile owns one user's declared holdings and the derived wealth
// snapshot. The engine reads the holding collections, rewrites crypto-lot
// enrichment and loan derived fields, and overwrites the snapshot; everything
// else on the profile belongs to the surrounding system.
type InvestorProfile struct {
	ID     uuid.UUID
	UserID uuid.UUID

	Liquidities []HoldingLot
	Investments []HoldingLot
	OtherAssets []HoldingLot
	CryptoLots  []CryptoLot
	RealEstate  []RealEstateEntry
	Loans       []LoanRecord

	Snapshot WealthSnapshot
}

// LoanByID returns the profile's loan with the given ID, or nil.
func (p *InvestorProfile) LoanByID(id uuid.UUID) *LoanRecord {
	for i := range p.Loans {
		if p.Loans[i].ID == id {
			return &p.Loans[i]
		}
	}
	return nil
}
