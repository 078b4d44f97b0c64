package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// CacheConfig selects and configures the cache backend.
// Type is "memory" or "redis"; anything else disables caching.
type CacheConfig struct {
	Type       string      `yaml:"type"`
	TTLSeconds int         `yaml:"ttl_seconds"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// AuthConfig contains token and password hashing settings
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
}

// RateLimitConfig contains the per-IP rate limit tiers
type RateLimitConfig struct {
	Enabled       bool `yaml:"enabled"`
	WindowMinutes int  `yaml:"window_minutes"`
	GlobalMax     int  `yaml:"global_max"`
	StrictMax     int  `yaml:"strict_max"`
	AuthMax       int  `yaml:"auth_max"`
}

// SchedulerConfig contains nightly maintenance settings
type SchedulerConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DailyRunTime  string `yaml:"daily_run_time"`
	RetentionDays int    `yaml:"retention_days"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				SSLMode: "disable",
			},
		},
		Cache: CacheConfig{
			Type:       "memory",
			TTLSeconds: 600,
		},
		Search: SearchConfig{
			Enabled: false,
		},
		Auth: AuthConfig{
			TokenTTLHours: 168,
			BcryptCost:    12,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			WindowMinutes: 15,
			GlobalMax:     100,
			StrictMax:     10,
			AuthMax:       5,
		},
		Scheduler: SchedulerConfig{
			Enabled:       true,
			DailyRunTime:  "02:30",
			RetentionDays: 180,
		},
	}
}

// LoadConfig loads configuration from a YAML file, merged over defaults.
// Environment variables are applied after the file so deployments can keep
// secrets out of YAML (see ApplyEnv).
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		config.ApplyEnv()
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyEnv()
	return config, nil
}

// ApplyEnv overrides config values from environment variables. Env always
// wins over the file.
func (c *Config) ApplyEnv() {
	c.Database.Postgres.Host = envOr("DB_HOST", c.Database.Postgres.Host)
	c.Database.Postgres.User = envOr("DB_USER", c.Database.Postgres.User)
	c.Database.Postgres.Password = envOr("DB_PASSWORD", c.Database.Postgres.Password)
	c.Database.Postgres.Database = envOr("DB_NAME", c.Database.Postgres.Database)
	if port, err := strconv.Atoi(os.Getenv("DB_PORT")); err == nil && port > 0 {
		c.Database.Postgres.Port = port
	}

	c.Cache.Redis.Addr = envOr("REDIS_ADDR", c.Cache.Redis.Addr)
	c.Cache.Redis.Password = envOr("REDIS_PASSWORD", c.Cache.Redis.Password)

	c.Search.Meilisearch.Host = envOr("MEILISEARCH_HOST", c.Search.Meilisearch.Host)
	c.Search.Meilisearch.APIKey = envOr("MEILISEARCH_KEY", c.Search.Meilisearch.APIKey)

	c.Auth.JWTSecret = envOr("JWT_SECRET", c.Auth.JWTSecret)

	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		c.Server.Port = port
	}
}

// Validate checks settings the server cannot start without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret (or JWT_SECRET) is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}
	if c.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host (or DB_HOST) is required")
	}
	return nil
}

// CacheTTL returns the cache TTL as a duration
func (c *CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Window returns the rate limit window as a duration
func (c *RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

// TokenTTL returns the token lifetime as a duration
func (c *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
