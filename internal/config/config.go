// Package config reads the fitting-engine's runtime configuration from the
// environment, matching the rest of this module's preference for explicit
// env vars over a configuration-file library.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// OracleBackend selects which fitting.Oracle implementation cmd/api wires
// up. cmd/fitcalc does not read this configuration; it always opens the
// sqlite oracle named by its -db flag.
type OracleBackend string

const (
	BackendSQLite   OracleBackend = "sqlite"
	BackendPostgres OracleBackend = "postgres"
)

// Config is the fitting-engine's full runtime configuration.
type Config struct {
	OracleBackend OracleBackend

	SDEPath     string // sqlite backend
	PostgresDSN string // postgres backend

	RedisAddr string // empty disables the redis cache decorator
	RedisTTL  time.Duration

	ListenAddr string

	// RateLimitPerSecond bounds inbound /calculate requests.
	RateLimitPerSecond int
}

// FromEnv builds a Config from environment variables, applying the same
// defaults a local developer running against the bundled SDE file expects.
func FromEnv() (Config, error) {
	cfg := Config{
		OracleBackend:      BackendSQLite,
		SDEPath:            getEnv("FITTING_SDE_PATH", "sde.sqlite"),
		PostgresDSN:        os.Getenv("FITTING_POSTGRES_DSN"),
		RedisAddr:          os.Getenv("FITTING_REDIS_ADDR"),
		RedisTTL:           24 * time.Hour,
		ListenAddr:         getEnv("FITTING_LISTEN_ADDR", ":8080"),
		RateLimitPerSecond: 20,
	}

	if backend := os.Getenv("FITTING_ORACLE_BACKEND"); backend != "" {
		switch OracleBackend(backend) {
		case BackendSQLite, BackendPostgres:
			cfg.OracleBackend = OracleBackend(backend)
		default:
			return Config{}, fmt.Errorf("config: unknown FITTING_ORACLE_BACKEND %q", backend)
		}
	}

	if cfg.OracleBackend == BackendPostgres && cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("config: FITTING_ORACLE_BACKEND=postgres requires FITTING_POSTGRES_DSN")
	}

	if raw := os.Getenv("FITTING_REDIS_TTL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid FITTING_REDIS_TTL_SECONDS: %w", err)
		}
		cfg.RedisTTL = time.Duration(seconds) * time.Second
	}

	if raw := os.Getenv("FITTING_RATE_LIMIT_PER_SECOND"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid FITTING_RATE_LIMIT_PER_SECOND: %w", err)
		}
		cfg.RateLimitPerSecond = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
