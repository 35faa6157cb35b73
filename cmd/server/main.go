// Package main runs the Retardio Meter web server: the score page, the JSON
// API, health and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"retardio-meter/internal/config"
	"retardio-meter/internal/holdings"
	"retardio-meter/internal/logging"
	"retardio-meter/internal/meter"
	"retardio-meter/internal/server"
	"retardio-meter/internal/solana"
	"retardio-meter/internal/storage/stores"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Parse flags (config values as defaults)
	rpcEndpoint := flag.String("rpc-endpoint", cfg.RPCEndpoint, "Solana RPC HTTP endpoint")
	addr := flag.String("addr", cfg.HTTPAddr, "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string for score history")
	pgMaxConns := flag.Int("postgres-max-conns", cfg.PostgresMaxConns, "Maximum PostgreSQL pool connections")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string for the analytics mirror")
	sqlitePath := flag.String("sqlite-path", cfg.SQLitePath, "SQLite file for score history (when no PostgreSQL)")
	rpcTimeout := flag.Duration("rpc-timeout", cfg.RPCTimeout, "Timeout of a single RPC request")
	pageLimit := flag.Int("nft-page-limit", cfg.NFTPageLimit, "Assets requested per getAssetsByOwner page")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logPretty := flag.Bool("log-pretty", cfg.LogPretty, "Human-readable log output")
	devMode := flag.Bool("dev", false, "Disable response compression")
	flag.Parse()

	logger := logging.New(logging.Config{Level: *logLevel, Pretty: *logPretty})
	logging.SetGlobalLogger(logger)

	if *rpcEndpoint == "" {
		logger.Fatal().Err(config.ErrMissingRPCEndpoint).Msg("--rpc-endpoint is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := stores.Open(ctx, stores.Options{
		PostgresDSN:      *postgresDSN,
		PostgresMaxConns: *pgMaxConns,
		ClickhouseDSN:    *clickhouseDSN,
		SQLitePath:       *sqlitePath,
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open stores")
	}
	defer st.Close()

	rpc := solana.NewHTTPClient(*rpcEndpoint, solana.WithTimeout(*rpcTimeout))
	fetcher := holdings.NewFetcher(rpc,
		holdings.WithPageLimit(*pageLimit),
		holdings.WithLogger(logger),
	)

	svc, err := meter.NewService(meter.Options{
		Fetcher: fetcher,
		Store:   st.Scores,
		Mirrors: st.Mirrors,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create meter service")
	}

	srv := server.New(server.Config{
		Addr:           *addr,
		Log:            logger,
		Service:        svc,
		RequestTimeout: *rpcTimeout * 2,
		DevMode:        *devMode,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		os.Exit(1)
	}

	logger.Info().Msg("Shutdown complete")
}
