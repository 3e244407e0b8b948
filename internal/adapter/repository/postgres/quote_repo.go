package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jepargne/patrimoine-backend/internal/domain"
)

// quoteRepository implements domain.QuoteRepository over the crypto_prices
// table, one row per symbol
type quoteRepository struct {
	db *DB
}

// NewQuoteRepository creates a new price quote repository
func NewQuoteRepository(db *DB) domain.QuoteRepository {
	return &quoteRepository{db: db}
}

// GetBySymbol retrieves the quote for a symbol, (nil, nil) when unknown
func (r *quoteRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	query := `
		SELECT symbol, price_usd, price_eur, used_fallback_rate, updated_at
		FROM crypto_prices
		WHERE symbol = $1
	`

	var quote domain.PriceQuote
	var priceUSD, priceEUR string

	err := r.db.QueryRowContext(ctx, query, symbol).Scan(
		&quote.Symbol,
		&priceUSD,
		&priceEUR,
		&quote.UsedFallbackRate,
		&quote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quote by symbol: %w", err)
	}

	if quote.PriceUSD, err = decimal.NewFromString(priceUSD); err != nil {
		return nil, fmt.Errorf("failed to parse price_usd: %w", err)
	}
	if quote.PriceEUR, err = decimal.NewFromString(priceEUR); err != nil {
		return nil, fmt.Errorf("failed to parse price_eur: %w", err)
	}

	return &quote, nil
}

// UpsertAll inserts or updates all quotes in one transaction, keyed by symbol
func (r *quoteRepository) UpsertAll(ctx context.Context, quotes []domain.PriceQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin quote upsert: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO crypto_prices (symbol, price_usd, price_eur, used_fallback_rate, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol) DO UPDATE
		SET price_usd = EXCLUDED.price_usd,
		    price_eur = EXCLUDED.price_eur,
		    used_fallback_rate = EXCLUDED.used_fallback_rate,
		    updated_at = EXCLUDED.updated_at
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare quote upsert: %w", err)
	}
	defer stmt.Close()

	for _, quote := range quotes {
		_, err := stmt.ExecContext(ctx,
			quote.Symbol,
			quote.PriceUSD.String(),
			quote.PriceEUR.String(),
			quote.UsedFallbackRate,
			quote.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert quote %s: %w", quote.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quote upsert: %w", err)
	}

	return nil
}

// LatestUpdate returns the most recent updated_at, the zero time when empty
func (r *quoteRepository) LatestUpdate(ctx context.Context) (time.Time, error) {
	query := `SELECT MAX(updated_at) FROM crypto_prices`

	var latest sql.NullTime
	if err := r.db.QueryRowContext(ctx, query).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("failed to read latest quote update: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}

	return latest.Time, nil
}
