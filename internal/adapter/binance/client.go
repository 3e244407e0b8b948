// Package binance implements the ticker source against the Binance public
// market-data API.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jepargne/patrimoine-backend/internal/domain"
)

const (
	// DefaultBaseURL is the production Binance REST endpoint.
	DefaultBaseURL = "https://api.binance.com"

	requestTimeout = 10 * time.Second
)

// Client fetches spot prices from Binance. The ticker endpoint returns every
// listed pair in one call, so a single request prices the whole portfolio.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Binance client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// FetchTickerPrices returns the full ticker listing as pair -> USD price.
// Pairs with unparseable prices are skipped.
func (c *Client) FetchTickerPrices(ctx context.Context) (map[string]float64, error) {
	url := c.baseURL + "/api/v3/ticker/price"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building ticker request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ticker endpoint returned %d", domain.ErrQuoteSourceUnavailable, resp.StatusCode)
	}

	var tickers []struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tickers); err != nil {
		return nil, fmt.Errorf("%w: decoding ticker response: %v", domain.ErrQuoteSourceUnavailable, err)
	}

	prices := make(map[string]float64, len(tickers))
	for _, ticker := range tickers {
		price, err := strconv.ParseFloat(ticker.Price, 64)
		if err != nil {
			continue
		}
		prices[ticker.Symbol] = price
	}
	return prices, nil
}
