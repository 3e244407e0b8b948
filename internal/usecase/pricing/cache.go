// Package pricing holds the crypto price cache: the single source of truth
// for "what is this symbol worth right now", with a bounded-staleness read
// policy and a batched refresh from the external quote source.
package pricing

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jepargne/patrimoine-backend/internal/domain"
)

// FallbackUSDToEURRate converts quotes when the conversion-rate source is
// unavailable. Quotes written with it carry UsedFallbackRate so the
// degradation stays observable.
const FallbackUSDToEURRate = 0.92

// TickerSource fetches the quote source's full ticker list in one batched
// call: trading pair -> price in USD.
type TickerSource interface {
	FetchTickerPrices(ctx context.Context) (map[string]float64, error)
}

// RateSource fetches the USD->EUR fiat conversion rate.
type RateSource interface {
	FetchUSDToEUR(ctx context.Context) (float64, error)
}

// Cache isolates all external-quote-provider calls behind a persisted,
// symbol-keyed quote store. It is constructed once at process start and
// injected into whoever needs prices.
type Cache struct {
	quotes  domain.QuoteRepository
	tickers TickerSource
	rates   RateSource
	log     zerolog.Logger
	now     func() time.Time
}

// NewCache creates a price cache over the given quote store and sources.
func NewCache(quotes domain.QuoteRepository, tickers TickerSource, rates RateSource, log zerolog.Logger) *Cache {
	return &Cache{
		quotes:  quotes,
		tickers: tickers,
		rates:   rates,
		log:     log.With().Str("component", "price-cache").Logger(),
		now:     time.Now,
	}
}

// Read returns the cached EUR price for a symbol if it is younger than
// maxAge. The second return value is false when the symbol is unknown or the
// quote is stale; the caller decides whether to force a refresh or tolerate
// a wider staleness window.
func (c *Cache) Read(ctx context.Context, symbol string, maxAge time.Duration) (decimal.Decimal, bool) {
	quote, err := c.quotes.GetBySymbol(ctx, NormalizeSymbol(symbol))
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote lookup failed")
		return decimal.Zero, false
	}
	if quote == nil {
		return decimal.Zero, false
	}
	if !quote.IsFresh(c.now(), maxAge) {
		return decimal.Zero, false
	}
	return quote.PriceEUR, true
}

// NeedsRefresh reports whether the most recent cached quote is older than
// maxAge, or the cache is empty. Callers use it as a cooperative
// single-flight gate so a refresh is attempted at most once per staleness
// window, not once per profile being recalculated.
func (c *Cache) NeedsRefresh(ctx context.Context, maxAge time.Duration) bool {
	latest, err := c.quotes.LatestUpdate(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("Freshness check failed")
		return true
	}
	if latest.IsZero() {
		return true
	}
	return c.now().Sub(latest) > maxAge
}

// RefreshAll fetches the full ticker list and the fiat conversion rate once,
// converts every tracked symbol present in the listing, and upserts all rows
// with the same timestamp. Symbols missing from the listing are skipped for
// this cycle. On failure the existing cache is left untouched (most recent
// known values survive) and false is returned.
func (c *Cache) RefreshAll(ctx context.Context) bool {
	rate, usedFallback := c.conversionRate(ctx)

	tickers, err := c.tickers.FetchTickerPrices(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("Ticker fetch failed, keeping cached prices")
		return false
	}

	now := c.now().UTC()
	rateDec := decimal.NewFromFloat(rate)
	quotes := make([]domain.PriceQuote, 0, len(symbolToPair))
	for symbol, pair := range symbolToPair {
		priceUSD, listed := tickers[pair]
		if !listed {
			c.log.Debug().Str("symbol", symbol).Str("pair", pair).Msg("Pair not listed, skipping")
			continue
		}
		usd := decimal.NewFromFloat(priceUSD)
		quotes = append(quotes, domain.PriceQuote{
			Symbol:           symbol,
			PriceUSD:         usd,
			PriceEUR:         usd.Mul(rateDec),
			UsedFallbackRate: usedFallback,
			UpdatedAt:        now,
		})
	}

	if len(quotes) == 0 {
		c.log.Warn().Msg("No tracked pairs in ticker listing, keeping cached prices")
		return false
	}

	if err := c.quotes.UpsertAll(ctx, quotes); err != nil {
		c.log.Warn().Err(err).Msg("Quote upsert failed, keeping cached prices")
		return false
	}

	c.log.Info().
		Int("quotes", len(quotes)).
		Float64("usd_to_eur", rate).
		Bool("fallback_rate", usedFallback).
		Msg("Price cache refreshed")
	return true
}

// conversionRate fetches the USD->EUR rate, degrading to the fallback
// constant when the source fails or returns garbage. The second return value
// reports whether the fallback was used.
func (c *Cache) conversionRate(ctx context.Context) (float64, bool) {
	rate, err := c.rates.FetchUSDToEUR(ctx)
	if err != nil || rate <= 0 {
		c.log.Warn().Err(err).Float64("fallback", FallbackUSDToEURRate).Msg("Conversion rate unavailable, using fallback")
		return FallbackUSDToEURRate, true
	}
	return rate, false
}
