package wire

import (
	"fmt"
	"sync"

	"feinstaub-server/cmd/config"
	"feinstaub-server/internal/infra/cache"
	"feinstaub-server/internal/infra/sql"
	"feinstaub-server/internal/telemetry/httpapi"
	"feinstaub-server/internal/telemetry/persistence"
	"feinstaub-server/internal/telemetry/usecases"
)

func provideAppConfig() config.AppConfig {
	return config.LoadConfig()
}

var (
	databaseOnce     sync.Once
	databaseInstance sql.ORM
	databaseErr      error
)

// provideDatabase opens the configured storage engine once; every injector
// shares the same connection pool.
func provideDatabase(cfg config.AppConfig) (sql.ORM, error) {
	databaseOnce.Do(func() {
		switch cfg.Database.Driver {
		case "memory":
			databaseInstance, databaseErr = sql.NewMemoryORM()
		case "postgres":
			databaseInstance, databaseErr = sql.NewPosgreORM(cfg.Database.DSN)
		case "sqlite", "":
			databaseInstance, databaseErr = sql.NewSQLiteORM(cfg.Database.DSN)
		default:
			databaseErr = fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
		}
	})

	return databaseInstance, databaseErr
}

var (
	repositoryOnce     sync.Once
	repositoryInstance *persistence.SimpleReadingRepository
	repositoryErr      error
)

// provideReadingRepository shares one repository so auto-migration runs once.
func provideReadingRepository(orm sql.ORM) (*persistence.SimpleReadingRepository, error) {
	repositoryOnce.Do(func() {
		repositoryInstance, repositoryErr = persistence.NewReadingRepository(orm)
	})

	return repositoryInstance, repositoryErr
}

var (
	latestReadingOnce     sync.Once
	latestReadingInstance usecases.LatestReadingCache
	latestReadingErr      error
)

// provideLatestReadingCache picks redis when an address is configured, the
// in-process slot otherwise. The ingestion worker and the query side must see
// the same slot, hence the singleton.
func provideLatestReadingCache(cfg config.AppConfig) (usecases.LatestReadingCache, error) {
	latestReadingOnce.Do(func() {
		if cfg.Redis.Addr != "" {
			client, err := cache.NewRedisClient(&cache.RedisConfig{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				latestReadingErr = fmt.Errorf("connecting to redis: %w", err)
				return
			}
			latestReadingInstance = persistence.NewRedisLatestReadingCache(client)
			return
		}

		store, err := cache.New(cache.DefaultConfig())
		if err != nil {
			latestReadingErr = fmt.Errorf("creating cache: %w", err)
			return
		}
		latestReadingInstance = persistence.NewMemoryLatestReadingCache(store)
	})

	return latestReadingInstance, latestReadingErr
}

func provideDashboardSecret(cfg config.AppConfig) string {
	return cfg.Dashboard.Password
}

func provideDashboardInfo(cfg config.AppConfig) httpapi.DashboardInfo {
	return httpapi.DashboardInfo{
		Password: cfg.Dashboard.Password,
		Title:    cfg.Dashboard.Title,
		Subtitle: cfg.Dashboard.Subtitle,
	}
}

func provideMonitorSchedule(cfg config.AppConfig) string {
	return cfg.Monitor.Schedule
}

func provideUplinkTopic(cfg config.AppConfig) string {
	return cfg.MQTTClient.Topic
}
