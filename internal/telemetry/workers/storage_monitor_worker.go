package workers

import (
	"context"
	"log/slog"
	"time"

	"feinstaub-server/internal/infra/async"
	"feinstaub-server/internal/telemetry/usecases"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const _monitorCheckTimeout = 10 * time.Second

func NewStorageMonitorWorker(schedule string, repository usecases.ReadingRepository) *StorageMonitorWorker {
	return &StorageMonitorWorker{
		schedule:   schedule,
		repository: repository,
		cron:       cron.New(),
	}
}

var _ async.Worker = (*StorageMonitorWorker)(nil)

// StorageMonitorWorker periodically pings the reading store and publishes its
// size as a gauge. A store that stops answering shows up here long before a
// dashboard user notices stale data.
type StorageMonitorWorker struct {
	schedule   string
	repository usecases.ReadingRepository
	cron       *cron.Cron
	entryGauge metric.Int64Gauge
	upGauge    metric.Int64Gauge
}

func (w *StorageMonitorWorker) Run(ctx context.Context, done func()) {
	slog.Info("storage monitor started", slog.String("schedule", w.schedule))
	defer done()

	meter := otel.Meter("feinstaub_server")
	w.entryGauge, _ = meter.Int64Gauge(
		"feinstaub_server.storage.entries",
		metric.WithDescription("Number of readings currently stored"),
	)
	w.upGauge, _ = meter.Int64Gauge(
		"feinstaub_server.storage.up",
		metric.WithDescription("Whether the reading store answers pings"),
	)

	_, err := w.cron.AddFunc(w.schedule, func() {
		w.check(context.Background())
	})
	if err != nil {
		slog.Error("registering monitor schedule",
			slog.String("schedule", w.schedule),
			slog.Any("error", err),
		)
		return
	}

	w.cron.Start()
	<-ctx.Done()
	slog.Info("storage monitor cancelled")
	<-w.cron.Stop().Done()
}

func (w *StorageMonitorWorker) Shutdown() {
	w.cron.Stop()
}

func (w *StorageMonitorWorker) check(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, _monitorCheckTimeout)
	defer cancel()

	if err := w.repository.Ping(checkCtx); err != nil {
		slog.Error("reading store unreachable", slog.Any("error", err))
		w.upGauge.Record(checkCtx, 0)
		return
	}
	w.upGauge.Record(checkCtx, 1)

	stats, err := w.repository.Stats(checkCtx)
	if err != nil {
		slog.Error("collecting store stats", slog.Any("error", err))
		return
	}

	w.entryGauge.Record(checkCtx, stats.TotalCount)
	slog.Debug("storage check completed",
		slog.Int64("total_entries", stats.TotalCount),
	)
}
