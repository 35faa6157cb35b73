package sqlite

import (
	"context"
	"fmt"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/storage"
)

// MintMetadataStore implements storage.MintMetadataStore using SQLite.
type MintMetadataStore struct {
	db *DB
}

// NewMintMetadataStore creates a new MintMetadataStore.
func NewMintMetadataStore(db *DB) *MintMetadataStore {
	return &MintMetadataStore{db: db}
}

// Compile-time interface check.
var _ storage.MintMetadataStore = (*MintMetadataStore)(nil)

// Upsert stores metadata, replacing any earlier fetch of the same mint.
func (s *MintMetadataStore) Upsert(ctx context.Context, m *domain.MintMetadata) error {
	if m == nil || m.Mint == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mint_metadata (mint, name, symbol, decimals, supply, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (mint) DO UPDATE SET
			name = excluded.name,
			symbol = excluded.symbol,
			decimals = excluded.decimals,
			supply = excluded.supply,
			fetched_at = excluded.fetched_at
	`, m.Mint, m.Name, m.Symbol, m.Decimals, m.Supply, m.FetchedAt)
	if err != nil {
		return fmt.Errorf("upsert mint metadata: %w", err)
	}
	return nil
}

// GetByMint retrieves metadata by mint address. Returns ErrNotFound if not exists.
func (s *MintMetadataStore) GetByMint(ctx context.Context, mint string) (*domain.MintMetadata, error) {
	var m domain.MintMetadata

	err := s.db.QueryRowContext(ctx, `
		SELECT mint, name, symbol, decimals, supply, fetched_at
		FROM mint_metadata
		WHERE mint = ?
	`, mint).Scan(&m.Mint, &m.Name, &m.Symbol, &m.Decimals, &m.Supply, &m.FetchedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get mint metadata: %w", err)
	}
	return &m, nil
}
