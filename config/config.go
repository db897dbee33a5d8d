package config

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"goflare.io/discounts/driver"
)

const (
	ServerStartPort = ":8080"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Geocoding GeocodingConfig `mapstructure:"geocoding"`
	Reclaimer ReclaimerConfig `mapstructure:"reclaimer"`
	Events    EventsConfig    `mapstructure:"events"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type GeocodingConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
}

type ReclaimerConfig struct {
	// StalenessWindow is how long a cart may go untouched before its
	// discount state is reclaimed.
	StalenessWindow time.Duration `mapstructure:"staleness_window"`
	// ScheduleHour is the local hour of day the daily sweep fires at.
	ScheduleHour int `mapstructure:"schedule_hour"`
}

type EventsConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

func ProvideApplicationConfig() (*Config, error) {

	viper.SetConfigFile("./config.yaml")
	viper.SetConfigType("yaml")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.address", ServerStartPort)
	viper.SetDefault("nats.url", nats.DefaultURL)
	viper.SetDefault("geocoding.endpoint", "https://maps.googleapis.com/maps/api/geocode/json")
	viper.SetDefault("reclaimer.staleness_window", 2*time.Hour)
	viper.SetDefault("reclaimer.schedule_hour", 2)
	viper.SetDefault("events.workers", 4)
	viper.SetDefault("events.queue_size", 64)
}

func ProvidePostgresConn(appConfig *Config) (driver.PostgresPool, error) {

	conn, err := driver.ConnectSQL(appConfig.Postgres.URL)
	if err != nil {
		return nil, err
	}

	return conn.Pool, nil
}

func ProvideRedis(appConfig *Config) (*redis.Client, error) {
	return driver.ConnectRedis(appConfig.Redis.Addr, appConfig.Redis.Password, 0)
}

func ProvideNATSConn(appConfig *Config) (*nats.Conn, error) {
	return driver.ConnectNATS(appConfig.NATS.URL)
}

func NewLogger() *zap.Logger {

	logger, _ := zap.NewProduction()
	return logger
}
