// Package config loads worker configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the root configuration for the CourtPulse worker.
type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	StatsAPI      StatsAPIConfig
	Scheduler     SchedulerConfig
	Observability ObservabilityConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	// Environment is "development" or "production"; it selects the log format.
	Environment string
	LogLevel    string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds settings for the optional snapshot read cache.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	CacheTTL time.Duration
}

// Addr returns host:port for the Redis client.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StatsAPIConfig holds settings for the upstream NBA stats source.
type StatsAPIConfig struct {
	BaseURL string
	Timeout time.Duration
	// TopN is how many players each snapshot keeps.
	TopN int
}

// SchedulerConfig holds the refresh cadences.
type SchedulerConfig struct {
	CompletedInterval time.Duration
	LiveInterval      time.Duration
}

// ObservabilityConfig holds the optional Prometheus listener settings.
type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsAddr    string
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "courtpulse"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "courtpulse"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxConns:        int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns:        int32(getEnvInt("DB_MIN_CONNS", 2)),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: getEnvDuration("REDIS_CACHE_TTL", 30*time.Second),
		},
		StatsAPI: StatsAPIConfig{
			BaseURL: getEnv("STATS_API_BASE_URL", "https://stats.nba.com"),
			Timeout: getEnvDuration("STATS_API_TIMEOUT", 30*time.Second),
			TopN:    getEnvInt("LEADERBOARD_TOP_N", 20),
		},
		Scheduler: SchedulerConfig{
			CompletedInterval: getEnvDuration("REFRESH_COMPLETED_INTERVAL", 3*time.Minute),
			LiveInterval:      getEnvDuration("REFRESH_LIVE_INTERVAL", 30*time.Second),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
			MetricsAddr:    getEnv("METRICS_ADDR", ":9090"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT out of range: %d", c.Database.Port)
	}
	if c.StatsAPI.BaseURL == "" {
		return fmt.Errorf("STATS_API_BASE_URL is required")
	}
	if c.StatsAPI.TopN <= 0 {
		return fmt.Errorf("LEADERBOARD_TOP_N must be positive: %d", c.StatsAPI.TopN)
	}
	if c.Scheduler.CompletedInterval < time.Second {
		return fmt.Errorf("REFRESH_COMPLETED_INTERVAL too small: %s", c.Scheduler.CompletedInterval)
	}
	if c.Scheduler.LiveInterval < time.Second {
		return fmt.Errorf("REFRESH_LIVE_INTERVAL too small: %s", c.Scheduler.LiveInterval)
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when REDIS_ENABLED is set")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
