// Package geocode resolves free-form place names to coordinates through the
// Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	// ErrNoMatch means the service answered but knows no place by that name.
	ErrNoMatch = errors.New("no match for address")

	// ErrUnavailable means the geocoding service could not be reached.
	ErrUnavailable = errors.New("geocoding service unavailable")
)

// userAgent identifies this client; Nominatim's usage policy requires one.
const userAgent = "skywatch/1.0"

// Client provides access to the Nominatim search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewClient creates a new Nominatim client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Locate resolves an address to decimal-degree coordinates, taking the
// service's best match.
func (c *Client) Locate(ctx context.Context, address string) (lat, lon float64, err error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode search results: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrNoMatch, address)
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude %q: %w", results[0].Lat, err)
	}
	lon, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude %q: %w", results[0].Lon, err)
	}
	return lat, lon, nil
}
