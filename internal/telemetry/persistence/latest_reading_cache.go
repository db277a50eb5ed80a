package persistence

import (
	"context"

	"feinstaub-server/internal/infra/cache"
	"feinstaub-server/internal/telemetry/domain"
	"feinstaub-server/internal/telemetry/usecases"
)

const latestReadingKey = "latest_reading"

func NewMemoryLatestReadingCache(store cache.Cache) *MemoryLatestReadingCache {
	return &MemoryLatestReadingCache{
		store: store,
	}
}

var _ usecases.LatestReadingCache = (*MemoryLatestReadingCache)(nil)

// MemoryLatestReadingCache keeps the most recent reading in process memory.
// The slot holds a single value that each successful ingest replaces.
type MemoryLatestReadingCache struct {
	store cache.Cache
}

func (m *MemoryLatestReadingCache) Set(ctx context.Context, reading domain.Reading) error {
	m.store.Set(ctx, latestReadingKey, reading, 0)
	return nil
}

func (m *MemoryLatestReadingCache) Get(ctx context.Context) (domain.Reading, bool) {
	value, ok := m.store.Get(ctx, latestReadingKey)
	if !ok {
		return domain.Reading{}, false
	}

	reading, ok := value.(domain.Reading)
	if !ok {
		return domain.Reading{}, false
	}

	return reading, true
}
