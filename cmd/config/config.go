package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		viper.SetEnvPrefix("feinstaub_server")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.SetConfigName("server")
		viper.AddConfigPath("config")
		viper.AddConfigPath("/config")
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		viper.SetDefault("http.address", ":9176")
		viper.SetDefault("database.driver", "sqlite")
		viper.SetDefault("database.dsn", "feinstaub.db")
		viper.SetDefault("dashboard.title", "Feinstaub Monitoring")
		viper.SetDefault("dashboard.subtitle", "Particle Sensor")
		viper.SetDefault("monitor.schedule", "@every 1m")
		configInstance = AppConfig{
			General: GeneralConfig{
				LogLevel: viper.GetString("general.log_level"),
			},
			HTTP: HTTPConfig{
				Address: viper.GetString("http.address"),
			},
			Dashboard: DashboardConfig{
				Title:    viper.GetString("dashboard.title"),
				Subtitle: viper.GetString("dashboard.subtitle"),
				Password: viper.GetString("dashboard.password"),
			},
			MQTTClient: MQTTClientConfig{
				Broker:   viper.GetString("mqtt_client.broker"),
				ClientID: viper.GetString("mqtt_client.client_id"),
				Username: viper.GetString("mqtt_client.username"),
				Password: viper.GetString("mqtt_client.password"),
				Topic:    viper.GetString("mqtt_client.topic"),
			},
			Database: DatabaseConfig{
				Driver: viper.GetString("database.driver"),
				DSN:    viper.GetString("database.dsn"),
			},
			Redis: RedisConfig{
				Addr:     viper.GetString("redis.addr"),
				Password: viper.GetString("redis.password"),
				DB:       viper.GetInt("redis.db"),
			},
			Monitor: MonitorConfig{
				Schedule: viper.GetString("monitor.schedule"),
			},
		}
	})

	return configInstance
}

type AppConfig struct {
	General    GeneralConfig
	HTTP       HTTPConfig
	Dashboard  DashboardConfig
	MQTTClient MQTTClientConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Monitor    MonitorConfig
}

type GeneralConfig struct {
	LogLevel string
}

type HTTPConfig struct {
	Address string
}

// DashboardConfig carries the presentation metadata and the shared secret
// used by the bearer-token check.
type DashboardConfig struct {
	Title    string
	Subtitle string
	Password string
}

type MQTTClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
}

// DatabaseConfig selects the storage engine. Driver is one of
// "sqlite", "postgres" or "memory".
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// RedisConfig is optional; an empty Addr keeps the latest-reading
// cache in process memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MonitorConfig struct {
	Schedule string
}
