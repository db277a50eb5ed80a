package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"feinstaub-server/internal/telemetry/domain"
	"feinstaub-server/internal/telemetry/usecases"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const redisOpTimeout = 2 * time.Second

func NewRedisLatestReadingCache(client *redis.Client) *RedisLatestReadingCache {
	return &RedisLatestReadingCache{
		client: client,
	}
}

var _ usecases.LatestReadingCache = (*RedisLatestReadingCache)(nil)

// RedisLatestReadingCache stores the most recent reading in redis so the
// slot survives process restarts and is shared between replicas.
type RedisLatestReadingCache struct {
	client *redis.Client
}

func (r *RedisLatestReadingCache) Set(ctx context.Context, reading domain.Reading) error {
	data, err := msgpack.Marshal(reading)
	if err != nil {
		return fmt.Errorf("encoding reading: %w", err)
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := r.client.Set(opCtx, latestReadingKey, data, 0).Err(); err != nil {
		return fmt.Errorf("storing reading: %w", err)
	}

	return nil
}

func (r *RedisLatestReadingCache) Get(ctx context.Context) (domain.Reading, bool) {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	data, err := r.client.Get(opCtx, latestReadingKey).Bytes()
	if err == redis.Nil {
		return domain.Reading{}, false
	}
	if err != nil {
		slog.Warn("redis get failed", slog.String("error", err.Error()))
		return domain.Reading{}, false
	}

	var reading domain.Reading
	if err := msgpack.Unmarshal(data, &reading); err != nil {
		slog.Warn("redis payload decode failed", slog.String("error", err.Error()))
		return domain.Reading{}, false
	}

	return reading, true
}
