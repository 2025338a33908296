package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Holdings HoldingsConfig
	Redis    RedisConfig
	Snapshot SnapshotConfig
	Metrics  MetricsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// HoldingsConfig holds the defaults for holdings computation. Values stored
// in the system_setting table take precedence at runtime.
type HoldingsConfig struct {
	BaseCurrency         string
	RefreshInterval      time.Duration
	StrictTradeDisposals bool
}

// RedisConfig holds the holdings cache configuration. An empty URL disables
// the cache.
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// SnapshotConfig holds the scheduled snapshot configuration. An empty
// schedule disables the job.
type SnapshotConfig struct {
	Schedule string
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	refreshMinutes, err := getEnvInt("PRICE_AUTO_REFRESH_INTERVAL_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	if refreshMinutes <= 0 {
		return nil, fmt.Errorf("PRICE_AUTO_REFRESH_INTERVAL_MINUTES must be positive, got %d", refreshMinutes)
	}
	strict, err := getEnvBool("STRICT_TRADE_DISPOSALS", true)
	if err != nil {
		return nil, err
	}
	pretty, err := getEnvBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}
	metricsEnabled, err := getEnvBool("METRICS_ENABLED", true)
	if err != nil {
		return nil, err
	}
	redisTTL, err := time.ParseDuration(getEnv("REDIS_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/holdings.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: pretty,
		},
		Holdings: HoldingsConfig{
			BaseCurrency:         strings.ToUpper(getEnv("BASE_CURRENCY", "USD")),
			RefreshInterval:      time.Duration(refreshMinutes) * time.Minute,
			StrictTradeDisposals: strict,
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
			TTL: redisTTL,
		},
		Snapshot: SnapshotConfig{
			Schedule: getEnvAllowEmpty("SNAPSHOT_SCHEDULE", "@daily"),
		},
		Metrics: MetricsConfig{
			Enabled: metricsEnabled,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAllowEmpty is like getEnv but keeps an explicitly empty value.
func getEnvAllowEmpty(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
