package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProfileRepository defines the interface for investor profile persistence.
type ProfileRepository interface {
	// GetByID retrieves a profile with all its holding collections.
	// Returns ErrProfileNotFound when no profile exists for the ID.
	GetByID(ctx context.Context, id uuid.UUID) (*InvestorProfile, error)

	// List retrieves every profile, for batch recalculation.
	List(ctx context.Context) ([]*InvestorProfile, error)

	// SaveSnapshot persists the profile's wealth snapshot together with the
	// enriched crypto lots and recomputed loan fields, as a single unit:
	// either everything is written or nothing is.
	SaveSnapshot(ctx context.Context, profile *InvestorProfile) error
}

// QuoteRepository defines the interface for the shared price quote store.
type QuoteRepository interface {
	// GetBySymbol retrieves the quote for a symbol.
	// Returns (nil, nil) when the symbol has never been quoted.
	GetBySymbol(ctx context.Context, symbol string) (*PriceQuote, error)

	// UpsertAll inserts or updates all quotes, keyed by symbol. The
	// operation is idempotent: overlapping refreshes converge to the same
	// end state.
	UpsertAll(ctx context.Context, quotes []PriceQuote) error

	// LatestUpdate returns the most recent UpdatedAt across all quotes, or
	// the zero time when the store is empty.
	LatestUpdate(ctx context.Context) (time.Time, error)
}
