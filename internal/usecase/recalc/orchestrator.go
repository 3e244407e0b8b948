// Package recalc coordinates recalculation requests: it decides when the
// price cache must be refreshed, serializes refresh attempts, and drives the
// aggregation engine over one profile or all of them.
package recalc

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jepargne/patrimoine-backend/internal/domain"
)

// PriceRefresher is the refresh-side surface of the price cache.
type PriceRefresher interface {
	NeedsRefresh(ctx context.Context, maxAge time.Duration) bool
	RefreshAll(ctx context.Context) bool
}

// SnapshotComputer runs one aggregation pass over a profile.
type SnapshotComputer interface {
	ComputeAndPersist(ctx context.Context, profile *domain.InvestorProfile) (*domain.WealthSnapshot, error)
}

// Orchestrator serializes price refreshes and fans recalculations out over
// profiles. One instance is shared by the HTTP trigger and the scheduler.
type Orchestrator struct {
	profiles    domain.ProfileRepository
	prices      PriceRefresher
	computer    SnapshotComputer
	priceMaxAge time.Duration
	log         zerolog.Logger

	// refreshMu serializes refresh attempts so concurrent triggers hit the
	// quote source at most once per staleness window.
	refreshMu sync.Mutex
}

// NewOrchestrator creates a recalculation orchestrator.
func NewOrchestrator(profiles domain.ProfileRepository, prices PriceRefresher, computer SnapshotComputer, priceMaxAge time.Duration, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		profiles:    profiles,
		prices:      prices,
		computer:    computer,
		priceMaxAge: priceMaxAge,
		log:         log.With().Str("component", "recalc-orchestrator").Logger(),
	}
}

// Recalculate refreshes prices if needed (always when force is set), then
// recomputes and persists the snapshot of one profile. A failed refresh is
// not fatal: the aggregation proceeds on cached prices.
func (o *Orchestrator) Recalculate(ctx context.Context, profileID uuid.UUID, force bool) (*domain.WealthSnapshot, error) {
	o.ensureFreshPrices(ctx, force)

	profile, err := o.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	return o.computer.ComputeAndPersist(ctx, profile)
}

// RecalculateAll refreshes prices once, then recomputes every profile.
// Per-profile failures are logged and skipped so one bad profile cannot
// block the rest of the batch.
func (o *Orchestrator) RecalculateAll(ctx context.Context, force bool) error {
	o.ensureFreshPrices(ctx, force)

	profiles, err := o.profiles.List(ctx)
	if err != nil {
		return err
	}

	failures := 0
	for _, profile := range profiles {
		if _, err := o.computer.ComputeAndPersist(ctx, profile); err != nil {
			failures++
			o.log.Error().
				Err(err).
				Str("profile_id", profile.ID.String()).
				Msg("Profile recalculation failed, skipping")
		}
	}

	o.log.Info().
		Int("profiles", len(profiles)).
		Int("failures", failures).
		Bool("forced", force).
		Msg("Batch recalculation finished")
	return nil
}

// ensureFreshPrices refreshes the cache when it is stale or a refresh is
// forced. The mutex keeps overlapping triggers from stampeding the quote
// source; by the time a waiter acquires the lock the cache is usually fresh
// and NeedsRefresh turns the second attempt into a no-op.
func (o *Orchestrator) ensureFreshPrices(ctx context.Context, force bool) {
	o.refreshMu.Lock()
	defer o.refreshMu.Unlock()

	if !force && !o.prices.NeedsRefresh(ctx, o.priceMaxAge) {
		return
	}
	if !o.prices.RefreshAll(ctx) {
		o.log.Warn().Msg("Price refresh failed, recalculating on cached prices")
	}
}
