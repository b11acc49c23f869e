package celestrak

import (
	"context"
	"fmt"

	"github.com/clearnight/skywatch/internal/logger"
	"github.com/clearnight/skywatch/internal/models"
)

// catalogFetcher is the slice of Fetcher the source needs; tests substitute
// a local implementation.
type catalogFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Source hands out the satellite catalog, refreshing the on-disk cache at
// most once per day. The caller supplies the current day so the freshness
// decision stays deterministic.
type Source struct {
	fetcher catalogFetcher
	store   *Store
}

// NewSource combines a fetcher and a store into a catalog source.
func NewSource(fetcher *Fetcher, store *Store) *Source {
	return &Source{fetcher: fetcher, store: store}
}

// Satellites returns the catalog for the given day. A cache fetched today
// is served as is; otherwise the catalog is re-fetched and the cache
// replaced. When the fetch fails but a stale cache exists, the stale
// catalog is served with a warning rather than failing the whole request.
func (s *Source) Satellites(ctx context.Context, today string) ([]models.Satellite, error) {
	if s.store.Fresh(today) {
		_, raw, err := s.store.Read()
		if err == nil {
			return ParseTLE(raw)
		}
		logger.Warn("Failed to read fresh element cache, refetching: %v", err)
	}

	raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if _, stale, readErr := s.store.Read(); readErr == nil {
			logger.Warn("Element fetch failed, serving stale catalog: %v", err)
			return ParseTLE(stale)
		}
		return nil, fmt.Errorf("refreshing element catalog: %w", err)
	}

	sats, err := ParseTLE(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing fetched catalog: %w", err)
	}
	if err := s.store.Write(today, raw); err != nil {
		logger.Warn("Failed to persist element cache: %v", err)
	}
	return sats, nil
}
