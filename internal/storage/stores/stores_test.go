package stores

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/storage/memory"
	sqlitestore "retardio-meter/internal/storage/sqlite"
)

func TestOpen_DefaultsToMemory(t *testing.T) {
	s, err := Open(context.Background(), Options{})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, BackendMemory, s.Backend)
	assert.IsType(t, &memory.ScoreStore{}, s.Scores)
	assert.IsType(t, &memory.MintMetadataStore{}, s.Metadata)
	assert.Empty(t, s.Mirrors)
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "meter.db")

	s, err := Open(ctx, Options{SQLitePath: path})
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, s.Backend)
	assert.IsType(t, &sqlitestore.ScoreStore{}, s.Scores)

	rec := &domain.ScoreRecord{ScoreID: "id-1", Wallet: "walletA", Points: 3, ComputedAt: 1, CreatedAt: 1}
	require.NoError(t, s.Scores.Insert(ctx, rec))
	require.NoError(t, s.Close())

	// Reopening keeps history and re-running migrations is harmless.
	s, err = Open(ctx, Options{SQLitePath: path})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Scores.GetLatest(ctx, "walletA")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Points)
}

func TestOpen_BadPostgresDSN(t *testing.T) {
	_, err := Open(context.Background(), Options{PostgresDSN: "not a dsn ::"})
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	s, err := Open(context.Background(), Options{SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
