package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/storage"
)

// MintMetadataStore implements storage.MintMetadataStore using PostgreSQL.
type MintMetadataStore struct {
	pool *Pool
}

// NewMintMetadataStore creates a new MintMetadataStore.
func NewMintMetadataStore(pool *Pool) *MintMetadataStore {
	return &MintMetadataStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MintMetadataStore = (*MintMetadataStore)(nil)

// Upsert stores metadata, replacing any earlier fetch of the same mint.
func (s *MintMetadataStore) Upsert(ctx context.Context, m *domain.MintMetadata) error {
	if m == nil || m.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO mint_metadata (mint, name, symbol, decimals, supply, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (mint) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			decimals = EXCLUDED.decimals,
			supply = EXCLUDED.supply,
			fetched_at = EXCLUDED.fetched_at
	`

	_, err := s.pool.Exec(ctx, query,
		m.Mint,
		m.Name,
		m.Symbol,
		m.Decimals,
		m.Supply,
		m.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert mint metadata: %w", err)
	}
	return nil
}

// GetByMint retrieves metadata by mint address. Returns ErrNotFound if not exists.
func (s *MintMetadataStore) GetByMint(ctx context.Context, mint string) (*domain.MintMetadata, error) {
	query := `
		SELECT mint, name, symbol, decimals, supply, fetched_at
		FROM mint_metadata
		WHERE mint = $1
	`

	m, err := scanMintMetadata(s.pool.QueryRow(ctx, query, mint))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get mint metadata: %w", err)
	}
	return m, nil
}

func scanMintMetadata(row pgx.Row) (*domain.MintMetadata, error) {
	var m domain.MintMetadata

	err := row.Scan(
		&m.Mint,
		&m.Name,
		&m.Symbol,
		&m.Decimals,
		&m.Supply,
		&m.FetchedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
