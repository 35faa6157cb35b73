// Package stores opens the configured score storage backends.
package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"retardio-meter/internal/storage"
	chstore "retardio-meter/internal/storage/clickhouse"
	"retardio-meter/internal/storage/memory"
	"retardio-meter/internal/storage/migrations"
	pgstore "retardio-meter/internal/storage/postgres"
	sqlitestore "retardio-meter/internal/storage/sqlite"
)

// Backend names.
const (
	BackendMemory     = "memory"
	BackendPostgres   = "postgres"
	BackendSQLite     = "sqlite"
	BackendClickhouse = "clickhouse"
)

// Options selects backends. The primary store is the first configured of
// postgres, sqlite, clickhouse, falling back to memory. ClickHouse mirrors
// the primary when it is not the primary itself.
type Options struct {
	PostgresDSN      string
	PostgresMaxConns int // 0 keeps the pgx default
	ClickhouseDSN    string
	SQLitePath       string
	Logger           zerolog.Logger
}

// Stores holds the opened stores.
type Stores struct {
	Scores   storage.ScoreStore
	Mirrors  []storage.ScoreStore
	Metadata storage.MintMetadataStore
	Backend  string

	closers []func() error
}

// Open connects to the configured backends and applies their migrations.
func Open(ctx context.Context, opts Options) (_ *Stores, err error) {
	log := opts.Logger.With().Str("component", "stores").Logger()
	s := &Stores{}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	switch {
	case opts.PostgresDSN != "":
		pool, err := pgstore.NewPool(ctx, opts.PostgresDSN, pgstore.WithMaxConns(opts.PostgresMaxConns))
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		s.closers = append(s.closers, func() error { pool.Close(); return nil })
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		s.Scores = pgstore.NewScoreStore(pool)
		s.Metadata = pgstore.NewMintMetadataStore(pool)
		s.Backend = BackendPostgres

	case opts.SQLitePath != "":
		db, err := sqlitestore.Open(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		s.Scores = sqlitestore.NewScoreStore(db)
		s.Metadata = sqlitestore.NewMintMetadataStore(db)
		s.Backend = BackendSQLite
	}

	if opts.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, opts.ClickhouseDSN)
		if err != nil {
			return nil, fmt.Errorf("migrate clickhouse: %w", err)
		}
		s.closers = append(s.closers, conn.Close)

		events := chstore.NewScoreEventStore(conn)
		if s.Scores == nil {
			s.Scores = events
			s.Backend = BackendClickhouse
		} else {
			s.Mirrors = append(s.Mirrors, events)
		}
	}

	if s.Scores == nil {
		s.Scores = memory.NewScoreStore()
		s.Backend = BackendMemory
	}
	if s.Metadata == nil {
		s.Metadata = memory.NewMintMetadataStore()
	}

	log.Info().
		Str("backend", s.Backend).
		Int("mirrors", len(s.Mirrors)).
		Msg("score storage ready")
	return s, nil
}

// Close releases every opened connection.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
