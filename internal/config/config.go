/*
Package config collects the environment-driven settings of the service.
Values are read once at startup; a local .env file is honoured when present.
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the complete runtime configuration.
type Config struct {
	Port   int
	AppEnv string
	AppURL string

	SessionSecret      string
	GoogleClientID     string
	GoogleClientSecret string

	DB     DBConfig
	Gemini GeminiConfig
	Cache  CacheConfig

	// TrendStrategy selects the trend classifier ("thresholded" or "simple").
	TrendStrategy string
	LogLevel      string
}

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

// GeminiConfig configures the narrative generator.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// CacheConfig configures narrative caching. An empty RedisAddr selects the
// in-process LRU cache.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	Size          int
	TTLMinutes    int
}

// ConnString builds the pgx connection URL.
func (d DBConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid integer setting, using default")
		return defaultValue
	}
	return v
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, reading from environment")
	}

	cfg := &Config{
		Port:               getIntOrDefault("PORT", 8080),
		AppEnv:             getEnvOrDefault("APP_ENV", "development"),
		AppURL:             strings.TrimRight(os.Getenv("APP_URL"), "/"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		DB: DBConfig{
			Host:     getEnvOrDefault("BLUEPRINT_DB_HOST", "localhost"),
			Port:     getEnvOrDefault("BLUEPRINT_DB_PORT", "5432"),
			User:     getEnvOrDefault("BLUEPRINT_DB_USERNAME", "postgres"),
			Password: os.Getenv("BLUEPRINT_DB_PASSWORD"),
			Database: getEnvOrDefault("BLUEPRINT_DB_DATABASE", "vitalog"),
			Schema:   getEnvOrDefault("BLUEPRINT_DB_SCHEMA", "public"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Cache: CacheConfig{
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			Size:          getIntOrDefault("NARRATIVE_CACHE_SIZE", 256),
			TTLMinutes:    getIntOrDefault("NARRATIVE_CACHE_TTL_MINUTES", 60),
		},
		TrendStrategy: getEnvOrDefault("TREND_STRATEGY", "thresholded"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg, cfg.Validate()
}

// Validate reports every required setting that is missing.
func (c *Config) Validate() error {
	var missing []string
	if c.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if c.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if c.AppURL == "" {
		missing = append(missing, "APP_URL")
	}
	if c.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
