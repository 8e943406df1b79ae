// Package stakewiz provides a client for the StakeWiz validator-info API.
package stakewiz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client represents a StakeWiz API client
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new StakeWiz API client with the given HTTP client and base URL
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// NewDefaultClient creates a StakeWiz client against the public API
func NewDefaultClient() *Client {
	return NewClient(&http.Client{Timeout: 30 * time.Second}, "https://api.stakewiz.com")
}

// Validator represents a validator record from the StakeWiz API
type Validator struct {
	Identity       string  `json:"identity"`
	VoteIdentity   string  `json:"vote_identity"`
	Name           string  `json:"name"`
	Commission     float64 `json:"commission"`
	APY            float64 `json:"total_apy"`
	Uptime         float64 `json:"uptime"`
	ActivatedStake float64 `json:"activated_stake"`
	Delinquent     bool    `json:"delinquent"`
	Version        string  `json:"version"`
	IPCity         string  `json:"ip_city"`
	IPCountry      string  `json:"ip_country"`
}

// GetValidator retrieves a single validator by vote account address
func (c *Client) GetValidator(ctx context.Context, voteAccount string) (*Validator, error) {
	url := fmt.Sprintf("%s/validator/%s", c.baseURL, voteAccount)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var validator Validator
	if err := json.NewDecoder(resp.Body).Decode(&validator); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &validator, nil
}
