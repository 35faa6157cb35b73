package storage

import (
	"context"

	"retardio-meter/internal/domain"
)

// ScoreStore provides access to score_records storage.
// Records are append-only: a wallet's history grows with every score.
type ScoreStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if score_id exists.
	Insert(ctx context.Context, r *domain.ScoreRecord) error

	// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, scoreID string) (*domain.ScoreRecord, error)

	// GetLatest retrieves the most recent record of a wallet.
	// Returns ErrNotFound if the wallet was never scored.
	GetLatest(ctx context.Context, wallet string) (*domain.ScoreRecord, error)

	// GetHistory retrieves up to limit records of a wallet, newest first.
	// A non-positive limit returns all records.
	GetHistory(ctx context.Context, wallet string, limit int) ([]*domain.ScoreRecord, error)

	// Leaderboard ranks each wallet's latest record by points DESC, wallet ASC.
	// A non-positive limit returns all wallets.
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// MintMetadataStore caches on-chain metadata of registry mints.
type MintMetadataStore interface {
	// Upsert stores metadata, replacing any earlier fetch of the same mint.
	Upsert(ctx context.Context, m *domain.MintMetadata) error

	// GetByMint retrieves metadata by mint address. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, mint string) (*domain.MintMetadata, error)
}

// ValidateScoreRecord checks the fields every store requires.
func ValidateScoreRecord(r *domain.ScoreRecord) error {
	if r == nil || r.ScoreID == "" || r.Wallet == "" {
		return ErrInvalidInput
	}
	return nil
}

// Newer reports whether a is more recent than b: later computed_at first,
// then higher score_id so the order is total.
func Newer(a, b *domain.ScoreRecord) bool {
	if a.ComputedAt != b.ComputedAt {
		return a.ComputedAt > b.ComputedAt
	}
	return a.ScoreID > b.ScoreID
}

// RankEntries assigns 1-based ranks in slice order.
func RankEntries(entries []domain.LeaderboardEntry) []domain.LeaderboardEntry {
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
