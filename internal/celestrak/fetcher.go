package celestrak

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnavailable means the element service could not be reached or refused
// the request. Retrying later may succeed.
var ErrUnavailable = errors.New("element service unavailable")

// DefaultCatalogURL serves the active-satellite catalog in TLE format. It
// is the configuration default for elements.catalog_url.
const DefaultCatalogURL = "https://celestrak.org/NORAD/elements/gp.php?GROUP=active&FORMAT=tle"

// Fetcher downloads the raw element catalog. CelesTrak blocks abusive
// clients, so requests go through a rate limiter even though the daily
// cache makes fetches rare.
type Fetcher struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewFetcher creates a fetcher for the given catalog URL, allowing at most
// one request per the given interval.
func NewFetcher(url string, timeout, minInterval time.Duration) *Fetcher {
	return &Fetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Fetch downloads the catalog text.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", f.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading catalog: %v", ErrUnavailable, err)
	}
	return string(body), nil
}
