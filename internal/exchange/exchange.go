// Package exchange fetches the USD to ARS rate used to price stock items.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

const defaultURL = "https://api.exchangerate-api.com/v4/latest/USD"

// FallbackRate is used whenever the rate service cannot be reached or
// returns something unusable. Selling at a stale rate beats not selling.
const FallbackRate = 350.0

// Client caches the exchange rate for the life of the process: the rate
// is fetched on first use and every later call returns the same value.
type Client struct {
	url  string
	http *http.Client

	once sync.Once
	rate float64
}

// NewClient returns a Client against the public rate API.
func NewClient() *Client {
	return NewClientWithURL(defaultURL)
}

// NewClientWithURL returns a Client against a custom endpoint. Used by
// tests to point at a local server.
func NewClientWithURL(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Rate returns the cached USD to ARS rate, fetching it on the first call.
// It never fails: any error falls back to FallbackRate.
func (c *Client) Rate(ctx context.Context) float64 {
	c.once.Do(func() {
		rate, err := c.fetch(ctx)
		if err != nil {
			log.Printf("Exchange rate fetch failed, using fallback %.0f: %v", FallbackRate, err)
			rate = FallbackRate
		}
		c.rate = rate
	})
	return c.rate
}

// rateResponse matches the wire shape {"rates": {"ARS": 1234.5}}.
type rateResponse struct {
	Rates struct {
		ARS float64 `json:"ARS"`
	} `json:"rates"`
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate service returned status %d", resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if body.Rates.ARS <= 0 {
		return 0, fmt.Errorf("rate service returned non-positive ARS rate %v", body.Rates.ARS)
	}
	return body.Rates.ARS, nil
}
