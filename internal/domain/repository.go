package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for snapshot caching
type CacheRepository interface {
	Get(ctx context.Context, key string) (MarketSnapshot, error)
	Set(ctx context.Context, key string, snapshot MarketSnapshot, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
}

// MarketClient defines the interface for the live market data provider.
// How resilience is achieved (batching, retries, region fallback) is the
// implementation's business; callers only ever see one frozen snapshot.
type MarketClient interface {
	Fetch(ctx context.Context, region string, ids []int) (MarketSnapshot, error)
	Probe(ctx context.Context, region string) (MarketQuote, error)
}

// CatalogRepository holds the normalized recipe set. Loads are memoized;
// Reload is the explicit cache-clear action that forces a re-read from disk.
type CatalogRepository interface {
	Recipes() ([]Recipe, error)
	Status() []CategoryStatus
	Reload() ([]Recipe, error)
}
