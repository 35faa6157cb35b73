package memory

import (
	"context"
	"sync"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/storage"
)

// MintMetadataStore is an in-memory implementation of storage.MintMetadataStore.
type MintMetadataStore struct {
	mu     sync.RWMutex
	byMint map[string]*domain.MintMetadata
}

// NewMintMetadataStore creates a new in-memory mint metadata store.
func NewMintMetadataStore() *MintMetadataStore {
	return &MintMetadataStore{
		byMint: make(map[string]*domain.MintMetadata),
	}
}

// Upsert stores metadata, replacing any earlier fetch of the same mint.
func (s *MintMetadataStore) Upsert(_ context.Context, m *domain.MintMetadata) error {
	if m == nil || m.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byMint[m.Mint] = copyMetadata(m)
	return nil
}

// GetByMint retrieves metadata by mint address. Returns ErrNotFound if not exists.
func (s *MintMetadataStore) GetByMint(_ context.Context, mint string) (*domain.MintMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyMetadata(m), nil
}

func copyMetadata(m *domain.MintMetadata) *domain.MintMetadata {
	cp := *m
	if m.Name != nil {
		name := *m.Name
		cp.Name = &name
	}
	if m.Symbol != nil {
		symbol := *m.Symbol
		cp.Symbol = &symbol
	}
	if m.Supply != nil {
		supply := *m.Supply
		cp.Supply = &supply
	}
	return &cp
}

var _ storage.MintMetadataStore = (*MintMetadataStore)(nil)
