package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/kosarica/basket-service/internal/fetch"
	"github.com/kosarica/basket-service/internal/optimizer"
)

// EnvPrefix prefixes every environment override, e.g. BASKET_SERVICE_SERVER_PORT.
const EnvPrefix = "BASKET_SERVICE"

// Config holds the application configuration
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Redis     RedisConfig      `mapstructure:"redis"`
	Storage   StorageConfig    `mapstructure:"storage"`
	Catalog   CatalogConfig    `mapstructure:"catalog"`
	Optimizer optimizer.Config `mapstructure:"optimizer"`
	RateLimit RateLimitConfig  `mapstructure:"rate_limit"`
	Telemetry TelemetryConfig  `mapstructure:"telemetry"`
	Logging   LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	APIKey       string        `mapstructure:"api_key"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RedisConfig holds the Redis connection used for basket storage
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// StorageConfig selects the basket blob store
type StorageConfig struct {
	Type          string        `mapstructure:"type"` // local or redis
	BasePath      string        `mapstructure:"base_path"`
	BasketTTL     time.Duration `mapstructure:"basket_ttl"` // 0 keeps baskets forever
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// CatalogConfig selects where the catalog snapshot comes from
type CatalogConfig struct {
	Source          string        `mapstructure:"source"` // file or database
	Files           []string      `mapstructure:"files"`
	Strict          bool          `mapstructure:"strict"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	LoadTimeout     time.Duration `mapstructure:"load_timeout"`
	TTL             time.Duration `mapstructure:"ttl"`
	Fetch           FetchConfig   `mapstructure:"fetch"`
}

// FetchConfig throttles downloads of remote catalog sources
type FetchConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxRetries        int           `mapstructure:"max_retries"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxBodySize       int64         `mapstructure:"max_body_size"`
}

// ClientConfig converts the settings for fetch.NewClient.
func (f FetchConfig) ClientConfig() fetch.Config {
	cfg := fetch.DefaultConfig()
	cfg.RequestsPerSecond = f.RequestsPerSecond
	cfg.MaxRetries = f.MaxRetries
	cfg.Timeout = f.Timeout
	cfg.MaxBodySize = f.MaxBodySize
	return cfg
}

// RateLimitConfig holds HTTP rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// TelemetryConfig holds OpenTelemetry exporter settings
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := loadEnvFile(); err != nil {
		// .env is optional
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if err := c.Optimizer.Validate(); err != nil {
		return fmt.Errorf("invalid optimizer config: %w", err)
	}
	switch c.Storage.Type {
	case "local", "redis":
	default:
		return fmt.Errorf("invalid storage type %q", c.Storage.Type)
	}
	switch c.Catalog.Source {
	case "file", "database":
	default:
		return fmt.Errorf("invalid catalog source %q", c.Catalog.Source)
	}
	return nil
}

// loadEnvFile loads the first .env file found. Variables already set in the
// environment win.
func loadEnvFile() error {
	for _, dir := range []string{".", "./config"} {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
	}
	return fmt.Errorf("no .env file found")
}

// bindEnvVars binds the unprefixed variables deployments commonly set
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	v.BindEnv("redis.addr", EnvPrefix+"_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	v.BindEnv("server.api_key", EnvPrefix+"_SERVER_API_KEY", "INTERNAL_API_KEY")
	v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL", "LOG_LEVEL")
	v.BindEnv("telemetry.endpoint", EnvPrefix+"_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.api_key", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 1)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "basket-service")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_path", "./data")
	v.SetDefault("storage.basket_ttl", 30*24*time.Hour)
	v.SetDefault("storage.sweep_interval", 1*time.Hour)

	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.files", []string{"./data/catalog.csv"})
	v.SetDefault("catalog.strict", false)
	v.SetDefault("catalog.refresh_interval", 15*time.Minute)
	v.SetDefault("catalog.load_timeout", 30*time.Second)
	v.SetDefault("catalog.ttl", 1*time.Hour)
	fd := fetch.DefaultConfig()
	v.SetDefault("catalog.fetch.requests_per_second", fd.RequestsPerSecond)
	v.SetDefault("catalog.fetch.max_retries", fd.MaxRetries)
	v.SetDefault("catalog.fetch.timeout", fd.Timeout)
	v.SetDefault("catalog.fetch.max_body_size", fd.MaxBodySize)

	d := optimizer.Defaults()
	v.SetDefault("optimizer.round_trip_rate_per_km", d.RoundTripRatePerKm)
	v.SetDefault("optimizer.round_trip_legs", d.RoundTripLegs)
	v.SetDefault("optimizer.delivery_base_fee", d.DeliveryBaseFee)
	v.SetDefault("optimizer.delivery_per_km", d.DeliveryPerKm)
	v.SetDefault("optimizer.delivery_commission", d.DeliveryCommission)
	v.SetDefault("optimizer.vehicle_supplements", d.VehicleSupplements)
	v.SetDefault("optimizer.enable_fallback_distance", d.EnableFallbackDistance)
	v.SetDefault("optimizer.fallback_distance_km", d.FallbackDistanceKm)
	v.SetDefault("optimizer.max_basket_items", d.MaxBasketItems)

	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.service_name", "basket-service")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)
}

// Get returns the configuration from the last successful Load
func Get() *Config {
	return globalConfig
}

// GetDatabaseURL returns the database URL from config or environment
func GetDatabaseURL() string {
	if cfg := Get(); cfg != nil && cfg.Database.URL != "" {
		return cfg.Database.URL
	}
	return os.Getenv("DATABASE_URL")
}
