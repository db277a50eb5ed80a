package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feinstaub-server/internal/telemetry/domain"
)

type ReadingService interface {
	// Current returns the most recent reading: the cached slot when
	// populated, the store otherwise, ErrNoDataYet before the first ingest.
	Current(ctx context.Context) (domain.Reading, error)
	// Historical returns readings of the trailing window of the given
	// number of hours; a non-positive value selects the full history.
	Historical(ctx context.Context, hours float64) ([]domain.Reading, error)
	Stats(ctx context.Context) (Stats, error)
}

type Stats struct {
	TotalEntries         int64
	CurrentDataAvailable bool
	OldestEntry          *time.Time
	NewestEntry          *time.Time
}

func NewReadingService(repository ReadingRepository, cache LatestReadingCache) *SimpleReadingService {
	return &SimpleReadingService{
		repository: repository,
		cache:      cache,
	}
}

var _ ReadingService = (*SimpleReadingService)(nil)

type SimpleReadingService struct {
	repository ReadingRepository
	cache      LatestReadingCache
}

func (s *SimpleReadingService) Current(ctx context.Context) (domain.Reading, error) {
	if reading, ok := s.cache.Get(ctx); ok {
		return reading, nil
	}

	reading, err := s.repository.Latest(ctx)
	if errors.Is(err, ErrReadingNotFound) {
		return domain.Reading{}, ErrNoDataYet
	}
	if err != nil {
		return domain.Reading{}, fmt.Errorf("getting latest reading: %w", err)
	}

	return reading, nil
}

func (s *SimpleReadingService) Historical(ctx context.Context, hours float64) ([]domain.Reading, error) {
	var from *time.Time
	if hours > 0 {
		cutoff := time.Now().UTC().Add(-time.Duration(hours * float64(time.Hour)))
		from = &cutoff
	}

	readings, err := s.repository.Range(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}

	return readings, nil
}

func (s *SimpleReadingService) Stats(ctx context.Context) (Stats, error) {
	storeStats, err := s.repository.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("querying store stats: %w", err)
	}

	_, cached := s.cache.Get(ctx)

	return Stats{
		TotalEntries:         storeStats.TotalCount,
		CurrentDataAvailable: cached,
		OldestEntry:          storeStats.Oldest,
		NewestEntry:          storeStats.Newest,
	}, nil
}
