package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache persists the last successful catalog fetch.
type Cache interface {
	ReplaceCatalog(ctx context.Context, ids []string, fetchedAt time.Time) error
	GetCatalog(ctx context.Context) ([]string, time.Time, error)
}

// Cached serves a fresh cache without calling upstream, refreshes the cache
// after a successful upstream fetch, and falls back to a stale cache when
// upstream fails.
type Cached struct {
	upstream Catalog
	cache    Cache
	ttl      time.Duration
	now      func() time.Time
}

// NewCached wraps upstream with cache. A non-positive ttl always refetches.
func NewCached(upstream Catalog, cache Cache, ttl time.Duration) *Cached {
	return &Cached{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		now:      time.Now,
	}
}

// AvailableModels returns the cached list when it is fresh, otherwise asks
// upstream.
func (c *Cached) AvailableModels(ctx context.Context) ([]string, error) {
	cached, fetchedAt, cacheErr := c.cache.GetCatalog(ctx)
	if cacheErr != nil {
		log.Warn().Err(cacheErr).Msg("reading catalog cache")
	}
	if cacheErr == nil && len(cached) > 0 && c.ttl > 0 && c.now().Sub(fetchedAt) < c.ttl {
		log.Debug().Int("models", len(cached)).Time("fetched_at", fetchedAt).Msg("serving cached catalog")
		return cached, nil
	}

	ids, err := c.upstream.AvailableModels(ctx)
	if err != nil {
		if len(cached) > 0 {
			log.Warn().Err(err).Int("models", len(cached)).Msg("catalog fetch failed, serving stale cache")
			return cached, nil
		}
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}

	if err := c.cache.ReplaceCatalog(ctx, ids, c.now()); err != nil {
		log.Warn().Err(err).Msg("writing catalog cache")
	}
	return ids, nil
}

// Recommended delegates to upstream.
func (c *Cached) Recommended() []string {
	return c.upstream.Recommended()
}
