// Package patrimony implements the wealth aggregation pass: it folds a
// profile's declared holdings, live-priced crypto lots and amortizing loans
// into one consistent snapshot, and persists the result.
package patrimony

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jepargne/patrimoine-backend/internal/domain"
	"github.com/jepargne/patrimoine-backend/internal/usecase/amortization"
)

// PriceReader provides cached EUR prices with a bounded staleness window.
type PriceReader interface {
	Read(ctx context.Context, symbol string, maxAge time.Duration) (decimal.Decimal, bool)
}

// Engine computes and persists wealth snapshots. It never talks to external
// quote sources directly; prices come from the injected reader.
type Engine struct {
	profiles    domain.ProfileRepository
	prices      PriceReader
	priceMaxAge time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

// NewEngine creates an aggregation engine. priceMaxAge bounds how old a
// cached quote may be before a crypto lot is treated as unpriced.
func NewEngine(profiles domain.ProfileRepository, prices PriceReader, priceMaxAge time.Duration, log zerolog.Logger) *Engine {
	return &Engine{
		profiles:    profiles,
		prices:      prices,
		priceMaxAge: priceMaxAge,
		log:         log.With().Str("component", "patrimony-engine").Logger(),
		now:         time.Now,
	}
}

// ComputeAndPersist runs a full aggregation pass over the profile: loan
// derived fields and crypto enrichment are rewritten in place, the snapshot
// is recomputed, and everything is saved as one unit. The profile's Snapshot
// field holds the result on success.
func (e *Engine) ComputeAndPersist(ctx context.Context, profile *domain.InvestorProfile) (*domain.WealthSnapshot, error) {
	asOf := e.now()

	e.refreshLoanFigures(profile, asOf)

	snapshot := domain.WealthSnapshot{
		Liquidities:   sumLots(profile.Liquidities),
		Investments:   sumLots(profile.Investments),
		OtherAssets:   sumLots(profile.OtherAssets),
		RealEstateNet: e.realEstateNet(profile).Round(2),
		Crypto:        e.enrichCrypto(ctx, profile, asOf),
		Liabilities:   e.liabilities(profile),
		CalculatedAt:  asOf,
	}

	snapshot.TotalAssets = snapshot.Liquidities.
		Add(snapshot.Investments).
		Add(snapshot.RealEstateNet).
		Add(snapshot.Crypto).
		Add(snapshot.OtherAssets)
	snapshot.NetWorth = snapshot.TotalAssets.Sub(snapshot.Liabilities)

	profile.Snapshot = snapshot

	if err := e.profiles.SaveSnapshot(ctx, profile); err != nil {
		return nil, err
	}

	e.log.Info().
		Str("profile_id", profile.ID.String()).
		Str("total_assets", snapshot.TotalAssets.String()).
		Str("net_worth", snapshot.NetWorth.String()).
		Msg("Snapshot recalculated")

	return &profile.Snapshot, nil
}

// refreshLoanFigures recomputes the derived fields of every loan as of the
// given date. A loan with parameters the formulas cannot price is zeroed out
// and logged; it then contributes nothing anywhere it is referenced.
func (e *Engine) refreshLoanFigures(profile *domain.InvestorProfile, asOf time.Time) {
	for i := range profile.Loans {
		loan := &profile.Loans[i]
		details, err := amortization.ComputeCreditDetails(loan.Principal, loan.AnnualRatePct, loan.TermMonths, loan.StartDate, asOf)
		if err != nil {
			e.log.Warn().
				Err(err).
				Str("profile_id", profile.ID.String()).
				Str("loan_id", loan.ID.String()).
				Msg("Loan parameters rejected, figures zeroed")
			loan.MonthlyPayment = decimal.Zero
			loan.RemainingPrincipal = decimal.Zero
			loan.CapitalRepaid = decimal.Zero
			loan.TotalCost = decimal.Zero
			continue
		}
		loan.MonthlyPayment = details.MonthlyPayment
		loan.RemainingPrincipal = details.RemainingCapital
		loan.CapitalRepaid = details.CapitalRepaid
		loan.TotalCost = details.TotalCost
	}
}

// enrichCrypto values every crypto lot against the price cache and returns
// the category total. A lot whose symbol has no fresh quote contributes zero
// to this pass but keeps its previous enrichment, so the last known figures
// stay visible to the user.
func (e *Engine) enrichCrypto(ctx context.Context, profile *domain.InvestorProfile, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for i := range profile.CryptoLots {
		lot := &profile.CryptoLots[i]
		price, ok := e.prices.Read(ctx, lot.Symbol, e.priceMaxAge)
		if !ok {
			e.log.Debug().
				Str("profile_id", profile.ID.String()).
				Str("symbol", lot.Symbol).
				Msg("No fresh quote, lot valued at zero for this pass")
			continue
		}
		lot.CurrentPrice = price
		lot.CalculatedValue = price.Mul(lot.Quantity).Round(2)
		lot.PricedAt = asOf
		total = total.Add(lot.CalculatedValue)
	}
	return total.Round(2)
}

// realEstateNet sums declared property values net of each linked loan's
// remaining principal. Only loans tagged asset-linked are netted: the tag is
// what keeps a loan out of the liabilities total, so netting anything else
// here would subtract it on both sides. Dangling or mistagged references
// leave the entry at its declared value.
func (e *Engine) realEstateNet(profile *domain.InvestorProfile) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range profile.RealEstate {
		net := entry.DeclaredValue
		if entry.LoanID != nil {
			loan := profile.LoanByID(*entry.LoanID)
			switch {
			case loan == nil:
				e.log.Warn().
					Str("profile_id", profile.ID.String()).
					Str("entry_id", entry.ID.String()).
					Str("loan_id", entry.LoanID.String()).
					Msg("Property references unknown loan, not netted")
			case loan.Kind != domain.LoanKindLinkedToAsset:
				e.log.Warn().
					Str("profile_id", profile.ID.String()).
					Str("entry_id", entry.ID.String()).
					Str("loan_id", loan.ID.String()).
					Str("kind", string(loan.Kind)).
					Msg("Property references a non-linked loan, not netted")
			default:
				net = net.Sub(loan.RemainingPrincipal)
			}
		}
		total = total.Add(net)
	}
	return total
}

// liabilities sums the remaining principal of every loan not netted inside
// the real-estate category: standalone loans, plus asset-linked loans no
// property references (those would otherwise vanish from both sides).
func (e *Engine) liabilities(profile *domain.InvestorProfile) decimal.Decimal {
	referenced := make(map[uuid.UUID]bool, len(profile.RealEstate))
	for _, entry := range profile.RealEstate {
		if entry.LoanID != nil {
			referenced[*entry.LoanID] = true
		}
	}

	total := decimal.Zero
	for _, loan := range profile.Loans {
		switch {
		case loan.Kind == domain.LoanKindStandalone:
			total = total.Add(loan.RemainingPrincipal)
		case loan.Kind == domain.LoanKindLinkedToAsset && !referenced[loan.ID]:
			e.log.Warn().
				Str("profile_id", profile.ID.String()).
				Str("loan_id", loan.ID.String()).
				Msg("Linked loan referenced by no property, counted as liability")
			total = total.Add(loan.RemainingPrincipal)
		}
	}
	return total.Round(2)
}

// sumLots totals the declared amounts of a holding collection.
func sumLots(lots []domain.HoldingLot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.Amount)
	}
	return total.Round(2)
}
