// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file,
when present, is loaded first through 'joho/godotenv'; real environment
variables always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StorageBunny = "bunny"
	StorageLocal = "local"
)

// # Configuration Schema

// Config holds all runtime configuration for the Zled API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// PublicURL is the externally reachable base URL, used to build content links.
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`

	// Relational Database (PostgreSQL)
	DatabaseURL      string `env:"DATABASE_URL,required"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"15"`

	// MigrationPath overrides the embedded schema with a directory of .sql files.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for identity signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Object Storage
	StorageDriver   string `env:"STORAGE_DRIVER"    envDefault:"bunny"`
	LocalStorageDir string `env:"LOCAL_STORAGE_DIR" envDefault:"./data/uploads"`
	Bunny           Bunny  `envPrefix:"BUNNY_"`

	// Player engine and hosted sessions
	Player Player `envPrefix:"PLAYER_"`

	// Admin account seeded on startup
	Admin Admin `envPrefix:"ADMIN_"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// Bunny configures the BunnyCDN storage zone.
type Bunny struct {
	StorageHost string `env:"STORAGE_HOST" envDefault:"sg.storage.bunnycdn.com"`
	StorageZone string `env:"STORAGE_ZONE" envDefault:"mco-cdn"`
	AccessKey   string `env:"ACCESS_KEY"`
	Path        string `env:"PATH"         envDefault:"/LED"`
	CDNURL      string `env:"CDN_URL"      envDefault:"https://mco-cdn.b-cdn.net"`
}

// Player tunes the playback engine.
type Player struct {
	TickInterval    time.Duration `env:"TICK_INTERVAL"    envDefault:"1s"`
	SwipeThreshold  float64       `env:"SWIPE_THRESHOLD"  envDefault:"50"`
	LoadTimeout     time.Duration `env:"LOAD_TIMEOUT"     envDefault:"30s"`
	LoadConcurrency int           `env:"LOAD_CONCURRENCY" envDefault:"4"`
	SessionTTL      time.Duration `env:"SESSION_TTL"      envDefault:"10m"`
	MaxSessions     int           `env:"MAX_SESSIONS"     envDefault:"32"`
	RenderParallel  int           `env:"RENDER_PARALLELISM" envDefault:"2"`
}

// Admin is the bootstrap administrator. Seeding is skipped when Email is empty.
type Admin struct {
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"Administrator"`
}

// # Configuration Loading

// Load reads '.env' (if any) and parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env is the normal case outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}

	return Parse()
}

// Parse maps the current environment without touching '.env'.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageBunny:
		if c.Bunny.AccessKey == "" {
			return errors.New("config: BUNNY_ACCESS_KEY is required when STORAGE_DRIVER=bunny")
		}
	case StorageLocal:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.Admin.Email != "" && c.Admin.Password == "" {
		return errors.New("config: ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	c.PublicURL = strings.TrimRight(c.PublicURL, "/")
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the extra CORS origins as a list.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
