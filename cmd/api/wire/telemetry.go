//go:build wireinject
// +build wireinject

package wire

import (
	"feinstaub-server/internal/infra/async"
	"feinstaub-server/internal/infra/mqtt"
	"feinstaub-server/internal/telemetry/httpapi"
	"feinstaub-server/internal/telemetry/persistence"
	"feinstaub-server/internal/telemetry/usecases"
	"feinstaub-server/internal/telemetry/workers"

	"github.com/google/wire"
)

var ReadingServiceSet = wire.NewSet(
	provideAppConfig,
	provideDatabase,
	provideReadingRepository,
	wire.Bind(new(usecases.ReadingRepository), new(*persistence.SimpleReadingRepository)),
	provideLatestReadingCache,
	usecases.NewReadingService,
	wire.Bind(new(usecases.ReadingService), new(*usecases.SimpleReadingService)),
)

func InitializeReadingController() (*httpapi.ReadingController, error) {
	wire.Build(
		ReadingServiceSet,
		provideDashboardSecret,
		httpapi.NewReadingController,
	)
	return nil, nil
}

func InitializeAuthController() (*httpapi.AuthController, error) {
	wire.Build(
		provideAppConfig,
		provideDashboardInfo,
		httpapi.NewAuthController,
	)
	return nil, nil
}

func InitializeHealthController(mqttClient mqtt.Client) (*httpapi.HealthController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		provideReadingRepository,
		wire.Bind(new(usecases.ReadingRepository), new(*persistence.SimpleReadingRepository)),
		httpapi.NewHealthController,
	)
	return nil, nil
}

func InitializeReadingWebSocketController(broker async.InternalBroker) (*httpapi.ReadingWebSocketController, error) {
	wire.Build(
		ReadingServiceSet,
		httpapi.NewReadingWebSocketController,
	)
	return nil, nil
}

func InitializeIngestionWorker(mqttClient mqtt.Client, broker async.InternalBroker) (*workers.IngestionWorker, error) {
	wire.Build(
		provideAppConfig,
		provideUplinkTopic,
		provideDatabase,
		provideReadingRepository,
		wire.Bind(new(usecases.ReadingRepository), new(*persistence.SimpleReadingRepository)),
		provideLatestReadingCache,
		workers.NewIngestionWorker,
	)
	return nil, nil
}

func InitializeMetricPublisherWorker(broker async.InternalBroker) (*workers.MetricPublisherWorker, error) {
	wire.Build(
		workers.NewMetricPublisherWorker,
	)
	return nil, nil
}

func InitializeStorageMonitorWorker() (*workers.StorageMonitorWorker, error) {
	wire.Build(
		provideAppConfig,
		provideMonitorSchedule,
		provideDatabase,
		provideReadingRepository,
		wire.Bind(new(usecases.ReadingRepository), new(*persistence.SimpleReadingRepository)),
		workers.NewStorageMonitorWorker,
	)
	return nil, nil
}
