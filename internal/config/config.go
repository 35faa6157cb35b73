// Package config loads runtime settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingRPCEndpoint is returned when no Solana RPC endpoint is configured.
var ErrMissingRPCEndpoint = errors.New("SOLANA_RPC_ENDPOINT is required")

// Config holds all runtime settings.
type Config struct {
	// Solana
	RPCEndpoint  string
	WSEndpoint   string
	RPCTimeout   time.Duration
	NFTPageLimit int

	// HTTP
	HTTPAddr string

	// Storage
	PostgresDSN      string
	PostgresMaxConns int
	ClickhouseDSN    string
	SQLitePath       string

	// Logging
	LogLevel  string
	LogPretty bool
}

// Load reads the given .env files (".env" when none are given) and then the
// process environment. Variables already set in the environment win over
// file values. Missing files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		RPCEndpoint:   os.Getenv("SOLANA_RPC_ENDPOINT"),
		WSEndpoint:    os.Getenv("SOLANA_WS_ENDPOINT"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		ClickhouseDSN: os.Getenv("CLICKHOUSE_DSN"),
		SQLitePath:    os.Getenv("SQLITE_PATH"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.LogPretty, err = getEnvBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}
	if cfg.RPCTimeout, err = getEnvDuration("RPC_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.NFTPageLimit, err = getEnvInt("NFT_PAGE_LIMIT", 1000); err != nil {
		return nil, err
	}
	if cfg.PostgresMaxConns, err = getEnvInt("POSTGRES_MAX_CONNS", 4); err != nil {
		return nil, err
	}
	if cfg.PostgresMaxConns <= 0 {
		return nil, fmt.Errorf("POSTGRES_MAX_CONNS must be positive, got %d", cfg.PostgresMaxConns)
	}
	if cfg.NFTPageLimit <= 0 {
		return nil, fmt.Errorf("NFT_PAGE_LIMIT must be positive, got %d", cfg.NFTPageLimit)
	}

	if cfg.WSEndpoint == "" {
		cfg.WSEndpoint = DeriveWSEndpoint(cfg.RPCEndpoint)
	}

	return cfg, nil
}

// RequireRPC returns ErrMissingRPCEndpoint when no RPC endpoint is set.
func (c *Config) RequireRPC() error {
	if c.RPCEndpoint == "" {
		return ErrMissingRPCEndpoint
	}
	return nil
}

// DeriveWSEndpoint maps an http(s) RPC URL to its ws(s) counterpart.
func DeriveWSEndpoint(rpc string) string {
	switch {
	case strings.HasPrefix(rpc, "https://"):
		return "wss://" + strings.TrimPrefix(rpc, "https://")
	case strings.HasPrefix(rpc, "http://"):
		return "ws://" + strings.TrimPrefix(rpc, "http://")
	default:
		return ""
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
