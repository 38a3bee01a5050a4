// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store backends.
const (
	StoreMemory    = "memory"
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
)

type Config struct {
	Port        string   `env:"PORT, default=8080"`
	LogLevel    string   `env:"LOG_LEVEL, default=info"`
	Store       string   `env:"STORE_BACKEND, default=memory"`
	MetricsPath string   `env:"METRICS_PATH, default=/metrics"`
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	Firebase FirebaseConfig
	Postgres PostgresConfig
	Redis    RedisConfig
}

type FirebaseConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type PostgresConfig struct {
	DSN     string `env:"DATABASE_URL"`
	Migrate bool   `env:"DATABASE_MIGRATE, default=true"`
}

type RedisConfig struct {
	Enabled bool   `env:"REDIS_ENABLED, default=false"`
	Addr    string `env:"REDIS_ADDR, default=localhost:6379"`
	DB      int    `env:"REDIS_DB, default=0"`
}

// Load reads .env when present and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreFirestore:
		if c.Firebase.ProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore backend")
		}
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want memory, firestore or postgres)", c.Store)
	}
	return nil
}
