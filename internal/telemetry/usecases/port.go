package usecases

import (
	"context"
	"errors"
	"time"

	"feinstaub-server/internal/telemetry/domain"
)

var (
	// ErrReadingNotFound is returned by the repository when no readings
	// have been persisted yet.
	ErrReadingNotFound = errors.New("reading not found")
	// ErrStorageUnavailable wraps append failures of the underlying storage
	// engine. The pipeline drops the message and keeps running.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNoDataYet is the query-time condition before the first ingest. It
	// surfaces as a not-found response, not as an internal fault.
	ErrNoDataYet = errors.New("no data received yet")
)

// ReadingRepository is the append-only store of sensor readings. Persisted
// readings are immutable: there is no update or delete.
type ReadingRepository interface {
	// Create durably appends one reading and returns it with the sequence
	// id assigned by the store.
	Create(ctx context.Context, reading domain.Reading) (domain.Reading, error)
	// Latest returns the reading with the maximum received_at, ties broken
	// by maximum sequence id, or ErrReadingNotFound.
	Latest(ctx context.Context) (domain.Reading, error)
	// Range returns all readings with received_at >= from, ascending by
	// received_at then sequence id. A nil from selects the whole table.
	Range(ctx context.Context, from *time.Time) ([]domain.Reading, error)
	Stats(ctx context.Context) (StoreStats, error)
	Ping(ctx context.Context) error
}

// LatestReadingCache is the single process-wide slot mirroring the most
// recently ingested reading. The ingestion worker is its only writer.
type LatestReadingCache interface {
	Set(ctx context.Context, reading domain.Reading) error
	Get(ctx context.Context) (domain.Reading, bool)
}

type StoreStats struct {
	TotalCount int64
	Oldest     *time.Time
	Newest     *time.Time
}
