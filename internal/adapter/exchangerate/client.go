// Package exchangerate implements the fiat conversion-rate source against the
// open exchangerate-api.com endpoint.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jepargne/patrimoine-backend/internal/domain"
)

const (
	// DefaultBaseURL serves latest rates keyed by base currency.
	DefaultBaseURL = "https://api.exchangerate-api.com/v4/latest"

	requestTimeout = 10 * time.Second
)

// Client fetches the USD->EUR rate. Callers are expected to tolerate failure
// and fall back to a fixed rate; this client only reports it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an exchange-rate client. An empty baseURL selects the
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

// FetchUSDToEUR returns the current USD->EUR conversion rate.
func (c *Client) FetchUSDToEUR(ctx context.Context) (float64, error) {
	url := c.baseURL + "/USD"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrQuoteSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: rate endpoint returned %d", domain.ErrQuoteSourceUnavailable, resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: decoding rate response: %v", domain.ErrQuoteSourceUnavailable, err)
	}

	rate, ok := payload.Rates["EUR"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: EUR rate missing from response", domain.ErrQuoteSourceUnavailable)
	}
	return rate, nil
}
