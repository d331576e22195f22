package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "talent-nest/backend/pkg/errors"
)

// Store backends
const (
	StoreBackendSQLite = "sqlite"
	StoreBackendNeo4j  = "neo4j"
)

// Cache backends
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string

	// Storage. Notifications and posts always live in SQLite; StoreBackend selects
	// where users and connection requests live.
	StoreBackend string
	DatabasePath string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Cache
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ConnectionsCacheTTL time.Duration
	FeedCacheTTL        time.Duration
	MatchesCacheTTL     time.Duration

	// Social graph
	AllowedCreationStatuses []string
	InvalidateOnGraphChange bool

	// Notifications
	NotificationRetention     time.Duration
	NotificationSweepInterval time.Duration
	NotificationMaxPageSize   int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:                      v.GetString("PORT"),
		Env:                       v.GetString("ENV"),
		LogLevel:                  v.GetString("LOG_LEVEL"),
		StoreBackend:              strings.ToLower(v.GetString("STORE_BACKEND")),
		DatabasePath:              v.GetString("DATABASE_PATH"),
		Neo4jURI:                  v.GetString("NEO4J_URI"),
		Neo4jUser:                 v.GetString("NEO4J_USER"),
		Neo4jPassword:             v.GetString("NEO4J_PASSWORD"),
		CacheBackend:              strings.ToLower(v.GetString("CACHE_BACKEND")),
		RedisAddr:                 v.GetString("REDIS_ADDR"),
		RedisPassword:             v.GetString("REDIS_PASSWORD"),
		RedisDB:                   v.GetInt("REDIS_DB"),
		ConnectionsCacheTTL:       v.GetDuration("CONNECTIONS_CACHE_TTL"),
		FeedCacheTTL:              v.GetDuration("FEED_CACHE_TTL"),
		MatchesCacheTTL:           v.GetDuration("MATCHES_CACHE_TTL"),
		AllowedCreationStatuses:   splitList(v.GetString("ALLOWED_CREATION_STATUSES")),
		InvalidateOnGraphChange:   v.GetBool("INVALIDATE_ON_GRAPH_CHANGE"),
		NotificationRetention:     v.GetDuration("NOTIFICATION_RETENTION"),
		NotificationSweepInterval: v.GetDuration("NOTIFICATION_SWEEP_INTERVAL"),
		NotificationMaxPageSize:   v.GetInt("NOTIFICATION_MAX_PAGE_SIZE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("STORE_BACKEND", StoreBackendSQLite)
	v.SetDefault("DATABASE_PATH", "./talentnest.db")
	v.SetDefault("NEO4J_URI", "bolt://localhost:7687")
	v.SetDefault("NEO4J_USER", "neo4j")
	v.SetDefault("NEO4J_PASSWORD", "password")
	v.SetDefault("CACHE_BACKEND", CacheBackendRedis)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CONNECTIONS_CACHE_TTL", "100s")
	v.SetDefault("FEED_CACHE_TTL", "120s")
	v.SetDefault("MATCHES_CACHE_TTL", "300s")
	v.SetDefault("ALLOWED_CREATION_STATUSES", "interested")
	v.SetDefault("INVALIDATE_ON_GRAPH_CHANGE", true)
	v.SetDefault("NOTIFICATION_RETENTION", "5m")
	v.SetDefault("NOTIFICATION_SWEEP_INTERVAL", "5m")
	v.SetDefault("NOTIFICATION_MAX_PAGE_SIZE", 50)
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendSQLite:
	case StoreBackendNeo4j:
		if c.Neo4jURI == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_URI")
		}
		if c.Neo4jUser == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_USER")
		}
		if c.Neo4jPassword == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
		}
	default:
		return apperrors.NewConfigValidationFailed("STORE_BACKEND", fmt.Sprintf("unknown backend %q", c.StoreBackend))
	}
	// SQLite always backs notifications and posts.
	if c.DatabasePath == "" {
		return apperrors.NewConfigMissingRequired("DATABASE_PATH")
	}

	switch c.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.RedisAddr == "" {
			return apperrors.NewConfigMissingRequired("REDIS_ADDR")
		}
	default:
		return apperrors.NewConfigValidationFailed("CACHE_BACKEND", fmt.Sprintf("unknown backend %q", c.CacheBackend))
	}

	durations := map[string]time.Duration{
		"CONNECTIONS_CACHE_TTL":       c.ConnectionsCacheTTL,
		"FEED_CACHE_TTL":              c.FeedCacheTTL,
		"MATCHES_CACHE_TTL":           c.MatchesCacheTTL,
		"NOTIFICATION_RETENTION":      c.NotificationRetention,
		"NOTIFICATION_SWEEP_INTERVAL": c.NotificationSweepInterval,
	}
	for key, d := range durations {
		if d <= 0 {
			return apperrors.NewConfigValidationFailed(key, "must be a positive duration such as 90s or 5m")
		}
	}

	if len(c.AllowedCreationStatuses) == 0 {
		return apperrors.NewConfigMissingRequired("ALLOWED_CREATION_STATUSES")
	}
	for _, status := range c.AllowedCreationStatuses {
		if status != "interested" && status != "ignored" {
			return apperrors.NewConfigValidationFailed("ALLOWED_CREATION_STATUSES",
				fmt.Sprintf("%q is not a creation status (interested, ignored)", status))
		}
	}

	if c.NotificationMaxPageSize <= 0 {
		return apperrors.NewConfigValidationFailed("NOTIFICATION_MAX_PAGE_SIZE", "must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
