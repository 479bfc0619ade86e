package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Freshness   FreshnessConfig `mapstructure:"freshness"`
	Upload      UploadConfig    `mapstructure:"upload"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type FreshnessConfig struct {
	DefaultFrequency  string `mapstructure:"default_frequency"`
	VintageWindowDays int    `mapstructure:"vintage_window_days"`
	CacheTTL          string `mapstructure:"cache_ttl"`
}

type UploadConfig struct {
	MaxBatchSize int     `mapstructure:"max_batch_size"`
	MinValue     float64 `mapstructure:"min_value"`
	MaxValue     float64 `mapstructure:"max_value"`
}

type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Normalize environment to lowercase for consistent comparison
	config.Environment = strings.ToLower(config.Environment)

	if config.Database.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return nil, fmt.Errorf("invalid conn_max_lifetime duration: %w", err)
		}
	}
	if config.Freshness.CacheTTL != "" {
		if _, err := time.ParseDuration(config.Freshness.CacheTTL); err != nil {
			return nil, fmt.Errorf("invalid freshness cache_ttl duration: %w", err)
		}
	}

	switch strings.ToUpper(config.Freshness.DefaultFrequency) {
	case "DAILY", "WEEKLY", "MONTHLY":
	default:
		return nil, fmt.Errorf("invalid freshness default_frequency: %s", config.Freshness.DefaultFrequency)
	}

	if config.Upload.MinValue >= config.Upload.MaxValue {
		return nil, fmt.Errorf("upload min_value must be below max_value, got [%v, %v]",
			config.Upload.MinValue, config.Upload.MaxValue)
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Set database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "curvecast")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.conn_max_lifetime", "300s")

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Freshness
	viper.SetDefault("freshness.default_frequency", "MONTHLY")
	viper.SetDefault("freshness.vintage_window_days", 30)
	viper.SetDefault("freshness.cache_ttl", "5m")

	// Upload
	viper.SetDefault("upload.max_batch_size", 10000)
	viper.SetDefault("upload.min_value", 0.0)
	viper.SetDefault("upload.max_value", 1000.0)

	// Telemetry
	viper.SetDefault("telemetry.enabled", true)
}
