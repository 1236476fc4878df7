package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"5000"`
	Env  string `env:"ENV" envDefault:"development"`

	// Record store
	StoreDriver      string        `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI         string        `env:"MONGODB_URI"`
	MongoDatabase    string        `env:"MONGODB_DATABASE" envDefault:"gate"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	RedisURL         string        `env:"REDIS_URL"`
	ScheduleCacheTTL time.Duration `env:"SCHEDULE_CACHE_TTL" envDefault:"30s"`

	// Gemini AI
	GeminiAPIKey   string `env:"GEMINI_API_KEY"`
	GeminiModel    string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	GeminiEndpoint string `env:"GEMINI_ENDPOINT"`

	// Frontend
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads .env (if present) and the process environment.
// Missing credentials are not an error here; callers log them and keep going.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	for i, o := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.StoreDriver {
	case StoreMongo, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of mongo, postgres, memory (got %q)", c.StoreDriver)
	}
	if c.ScheduleCacheTTL < 0 {
		return fmt.Errorf("SCHEDULE_CACHE_TTL must be >= 0")
	}
	if c.GeminiModel == "" {
		return fmt.Errorf("GEMINI_MODEL cannot be empty")
	}
	return nil
}

// MissingSettings lists the credentials the configured backends need but
// were not provided.
func (c *Config) MissingSettings() []string {
	var missing []string
	if c.StoreDriver == StoreMongo && c.MongoURI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if c.StoreDriver == StorePostgres && c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	return missing
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
