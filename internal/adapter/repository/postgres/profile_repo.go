package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jepargne/patrimoine-backend/internal/domain"
)

// profileRepository implements domain.ProfileRepository. Holding collections
// live in JSONB columns; the derived snapshot totals are flattened into
// numeric columns so they can be queried without unpacking documents.
type profileRepository struct {
	db *DB
}

// NewProfileRepository creates a new investor profile repository
func NewProfileRepository(db *DB) domain.ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `
	id, user_id,
	liquidities, investments, other_assets, crypto_lots, real_estate, loans,
	liquidities_total, investments_total, real_estate_net_total, crypto_total,
	other_assets_total, total_assets, liabilities_total, net_worth,
	last_calculation_at
`

// GetByID retrieves a profile with all its holding collections
func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvestorProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM investor_profiles WHERE id = $1`

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by ID: %w", err)
	}

	return profile, nil
}

// List retrieves every profile, for batch recalculation
func (r *profileRepository) List(ctx context.Context) ([]*domain.InvestorProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM investor_profiles ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.InvestorProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}

// SaveSnapshot persists the snapshot totals together with the enriched crypto
// lots and recomputed loan fields in a single UPDATE, so a reader never sees
// totals from one pass next to enrichment from another
func (r *profileRepository) SaveSnapshot(ctx context.Context, profile *domain.InvestorProfile) error {
	cryptoLots, err := json.Marshal(profile.CryptoLots)
	if err != nil {
		return fmt.Errorf("failed to marshal crypto lots: %w", err)
	}
	loans, err := json.Marshal(profile.Loans)
	if err != nil {
		return fmt.Errorf("failed to marshal loans: %w", err)
	}

	query := `
		UPDATE investor_profiles
		SET crypto_lots = $2,
		    loans = $3,
		    liquidities_total = $4,
		    investments_total = $5,
		    real_estate_net_total = $6,
		    crypto_total = $7,
		    other_assets_total = $8,
		    total_assets = $9,
		    liabilities_total = $10,
		    net_worth = $11,
		    last_calculation_at = $12
		WHERE id = $1
	`

	// lib/pq encodes []byte as bytea, so JSONB parameters go over as strings
	snapshot := profile.Snapshot
	result, err := r.db.ExecContext(ctx, query,
		profile.ID,
		string(cryptoLots),
		string(loans),
		snapshot.Liquidities.String(),
		snapshot.Investments.String(),
		snapshot.RealEstateNet.String(),
		snapshot.Crypto.String(),
		snapshot.OtherAssets.String(),
		snapshot.TotalAssets.String(),
		snapshot.Liabilities.String(),
		snapshot.NetWorth.String(),
		snapshot.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check snapshot update: %w", err)
	}
	if affected == 0 {
		return domain.ErrProfileNotFound
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helper
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row scanner) (*domain.InvestorProfile, error) {
	var profile domain.InvestorProfile
	var liquidities, investments, otherAssets, cryptoLots, realEstate, loans []byte
	var liquiditiesTotal, investmentsTotal, realEstateNet, cryptoTotal sql.NullString
	var otherAssetsTotal, totalAssets, liabilities, netWorth sql.NullString
	var calculatedAt sql.NullTime

	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&liquidities,
		&investments,
		&otherAssets,
		&cryptoLots,
		&realEstate,
		&loans,
		&liquiditiesTotal,
		&investmentsTotal,
		&realEstateNet,
		&cryptoTotal,
		&otherAssetsTotal,
		&totalAssets,
		&liabilities,
		&netWorth,
		&calculatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalColumn(liquidities, &profile.Liquidities); err != nil {
		return nil, fmt.Errorf("failed to parse liquidities: %w", err)
	}
	if err := unmarshalColumn(investments, &profile.Investments); err != nil {
		return nil, fmt.Errorf("failed to parse investments: %w", err)
	}
	if err := unmarshalColumn(otherAssets, &profile.OtherAssets); err != nil {
		return nil, fmt.Errorf("failed to parse other assets: %w", err)
	}
	if err := unmarshalColumn(cryptoLots, &profile.CryptoLots); err != nil {
		return nil, fmt.Errorf("failed to parse crypto lots: %w", err)
	}
	if err := unmarshalColumn(realEstate, &profile.RealEstate); err != nil {
		return nil, fmt.Errorf("failed to parse real estate: %w", err)
	}
	if err := unmarshalColumn(loans, &profile.Loans); err != nil {
		return nil, fmt.Errorf("failed to parse loans: %w", err)
	}

	snapshot := &profile.Snapshot
	for _, field := range []struct {
		column sql.NullString
		dest   *decimal.Decimal
		name   string
	}{
		{liquiditiesTotal, &snapshot.Liquidities, "liquidities_total"},
		{investmentsTotal, &snapshot.Investments, "investments_total"},
		{realEstateNet, &snapshot.RealEstateNet, "real_estate_net_total"},
		{cryptoTotal, &snapshot.Crypto, "crypto_total"},
		{otherAssetsTotal, &snapshot.OtherAssets, "other_assets_total"},
		{totalAssets, &snapshot.TotalAssets, "total_assets"},
		{liabilities, &snapshot.Liabilities, "liabilities_total"},
		{netWorth, &snapshot.NetWorth, "net_worth"},
	} {
		if !field.column.Valid {
			// Profile has never been recalculated
			continue
		}
		value, err := decimal.NewFromString(field.column.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", field.name, err)
		}
		*field.dest = value
	}
	if calculatedAt.Valid {
		snapshot.CalculatedAt = calculatedAt.Time
	}

	return &profile, nil
}

// unmarshalColumn decodes a JSONB document, treating NULL as empty
func unmarshalColumn(data []byte, dest interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
