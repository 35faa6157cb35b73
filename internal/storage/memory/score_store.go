package memory

import (
	"context"
	"sort"
	"sync"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/storage"
)

// ScoreStore is an in-memory implementation of storage.ScoreStore.
type ScoreStore struct {
	mu       sync.RWMutex
	byID     map[string]*domain.ScoreRecord
	byWallet map[string][]*domain.ScoreRecord // newest first
}

// NewScoreStore creates a new in-memory score store.
func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		byID:     make(map[string]*domain.ScoreRecord),
		byWallet: make(map[string][]*domain.ScoreRecord),
	}
}

// Insert adds a new record. Returns ErrDuplicateKey if score_id exists.
func (s *ScoreStore) Insert(_ context.Context, r *domain.ScoreRecord) error {
	if err := storage.ValidateScoreRecord(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[r.ScoreID]; exists {
		return storage.ErrDuplicateKey
	}

	rec := r.Clone()
	s.byID[rec.ScoreID] = rec

	history := append(s.byWallet[rec.Wallet], rec)
	sort.SliceStable(history, func(i, j int) bool {
		return storage.Newer(history[i], history[j])
	})
	s.byWallet[rec.Wallet] = history
	return nil
}

// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
func (s *ScoreStore) GetByID(_ context.Context, scoreID string) (*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.byID[scoreID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return r.Clone(), nil
}

// GetLatest retrieves the most recent record of a wallet.
func (s *ScoreStore) GetLatest(_ context.Context, wallet string) (*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.byWallet[wallet]
	if len(history) == 0 {
		return nil, storage.ErrNotFound
	}
	return history[0].Clone(), nil
}

// GetHistory retrieves up to limit records of a wallet, newest first.
func (s *ScoreStore) GetHistory(_ context.Context, wallet string, limit int) ([]*domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.byWallet[wallet]
	if limit > 0 && limit < len(history) {
		history = history[:limit]
	}

	result := make([]*domain.ScoreRecord, 0, len(history))
	for _, r := range history {
		result = append(result, r.Clone())
	}
	return result, nil
}

// Leaderboard ranks each wallet's latest record by points DESC, wallet ASC.
func (s *ScoreStore) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(s.byWallet))
	for _, history := range s.byWallet {
		entries = append(entries, history[0].Entry())
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].Wallet < entries[j].Wallet
	})

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return storage.RankEntries(entries), nil
}

var _ storage.ScoreStore = (*ScoreStore)(nil)
