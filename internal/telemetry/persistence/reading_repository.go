package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feinstaub-server/internal/infra/sql"
	"feinstaub-server/internal/telemetry/domain"
	"feinstaub-server/internal/telemetry/persistence/internal"
	"feinstaub-server/internal/telemetry/usecases"
)

func NewReadingRepository(orm sql.ORM) (*SimpleReadingRepository, error) {
	err := orm.AutoMigrate(&internal.SensorData{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleReadingRepository{
		orm: orm,
	}, nil
}

var _ usecases.ReadingRepository = (*SimpleReadingRepository)(nil)

type SimpleReadingRepository struct {
	orm sql.ORM
}

func (s *SimpleReadingRepository) Create(ctx context.Context, reading domain.Reading) (domain.Reading, error) {
	entity := internal.FromReading(reading)
	err := s.orm.
		WithContext(ctx).
		Create(&entity).
		Error()

	if err != nil {
		return domain.Reading{}, fmt.Errorf("%w: %v", usecases.ErrStorageUnavailable, err)
	}

	return entity.ToDomain(), nil
}

func (s *SimpleReadingRepository) Latest(ctx context.Context) (domain.Reading, error) {
	var entity internal.SensorData
	err := s.orm.
		WithContext(ctx).
		Order("received_at DESC, id DESC").
		First(&entity).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Reading{}, usecases.ErrReadingNotFound
	}

	if err != nil {
		return domain.Reading{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (s *SimpleReadingRepository) Range(ctx context.Context, from *time.Time) ([]domain.Reading, error) {
	query := s.orm.
		WithContext(ctx).
		Order("received_at ASC, id ASC")

	if from != nil {
		query = query.Where("received_at >= ?", *from)
	}

	var entities []internal.SensorData
	err := query.
		Find(&entities).
		Error()

	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.Reading, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, nil
}

func (s *SimpleReadingRepository) Stats(ctx context.Context) (usecases.StoreStats, error) {
	var total int64
	err := s.orm.
		WithContext(ctx).
		Model(&internal.SensorData{}).
		Count(&total).
		Error()
	if err != nil {
		return usecases.StoreStats{}, fmt.Errorf("count query: %w", err)
	}

	stats := usecases.StoreStats{TotalCount: total}
	if total == 0 {
		return stats, nil
	}

	var oldest internal.SensorData
	err = s.orm.
		WithContext(ctx).
		Order("received_at ASC, id ASC").
		First(&oldest).
		Error()
	if err != nil {
		return usecases.StoreStats{}, fmt.Errorf("oldest query: %w", err)
	}

	var newest internal.SensorData
	err = s.orm.
		WithContext(ctx).
		Order("received_at DESC, id DESC").
		First(&newest).
		Error()
	if err != nil {
		return usecases.StoreStats{}, fmt.Errorf("newest query: %w", err)
	}

	stats.Oldest = &oldest.ReceivedAt
	stats.Newest = &newest.ReceivedAt
	return stats, nil
}

func (s *SimpleReadingRepository) Ping(ctx context.Context) error {
	return s.orm.Ping(ctx)
}
