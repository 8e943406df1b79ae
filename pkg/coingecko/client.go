// Package coingecko provides a minimal client for the CoinGecko price API.
package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrPriceMissing is returned when the API answers without the requested quote
var ErrPriceMissing = errors.New("price missing from response")

// Client represents a CoinGecko API client
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new CoinGecko API client with the given HTTP client and base URL
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// NewDefaultClient creates a CoinGecko client against the public API
func NewDefaultClient() *Client {
	return NewClient(&http.Client{Timeout: 30 * time.Second}, "https://api.coingecko.com")
}

// GetSolPriceUSD retrieves the current SOL/USD spot price
func (c *Client) GetSolPriceUSD(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/api/v3/simple/price?ids=solana&vs_currencies=usd", c.baseURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var quotes map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}

	price, ok := quotes["solana"]["usd"]
	if !ok {
		return 0, ErrPriceMissing
	}

	return price, nil
}
