// Package meter ties holdings fetching, scoring and score history together.
package meter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/idhash"
	"retardio-meter/internal/observability"
	"retardio-meter/internal/scoring"
	"retardio-meter/internal/solana"
	"retardio-meter/internal/storage"
)

// ErrInvalidAddress is returned for input that is not a Solana address.
var ErrInvalidAddress = solana.ErrInvalidAddress

// HoldingsFetcher reads the holdings of a wallet.
type HoldingsFetcher interface {
	Fetch(ctx context.Context, wallet string) (*domain.Holdings, error)
}

// Scorer scores a wallet. Implemented by Service.
type Scorer interface {
	Score(ctx context.Context, wallet string) (*domain.ScoreRecord, error)
}

// Options for creating Service.
type Options struct {
	// Required
	Fetcher HoldingsFetcher
	Store   storage.ScoreStore

	// Mirrors receive a copy of every new record (e.g. the analytics table).
	Mirrors []storage.ScoreStore

	// Engine defaults to one tracing token calculations at debug level.
	Engine *scoring.Engine
	Logger zerolog.Logger
	Now    func() time.Time
}

// Service scores wallets and keeps their history.
type Service struct {
	fetcher HoldingsFetcher
	store   storage.ScoreStore
	mirrors []storage.ScoreStore
	engine  *scoring.Engine
	log     zerolog.Logger
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(opts Options) (*Service, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("meter: fetcher is required")
	}
	if opts.Store == nil {
		return nil, errors.New("meter: store is required")
	}

	log := opts.Logger.With().Str("component", "meter").Logger()

	s := &Service{
		fetcher: opts.Fetcher,
		store:   opts.Store,
		mirrors: opts.Mirrors,
		engine:  opts.Engine,
		log:     log,
		now:     opts.Now,
	}
	if s.engine == nil {
		s.engine = scoring.NewEngine(scoring.WithTracer(scoring.NewLogTracer(opts.Logger)))
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

var _ Scorer = (*Service)(nil)

// Score fetches the wallet's holdings and scores them once.
// Persisting the record is best-effort: a store failure is logged and the
// record is still returned.
func (s *Service) Score(ctx context.Context, wallet string) (*domain.ScoreRecord, error) {
	h, err := s.fetcher.Fetch(ctx, wallet)
	if err != nil {
		if errors.Is(err, ErrInvalidAddress) {
			observability.RecordScoreFailure(observability.OutcomeInvalid)
			return nil, err
		}
		observability.RecordScoreFailure(observability.OutcomeFetchError)
		s.log.Warn().Err(err).Str("wallet", wallet).Msg("fetch holdings failed")
		return nil, fmt.Errorf("fetch holdings: %w", err)
	}

	result := s.engine.Score(h.Balances, h.NFTCount)

	rec := &domain.ScoreRecord{
		ScoreID:    idhash.ComputeScoreID(h.Wallet, h.FetchedAt, result.Points),
		Wallet:     h.Wallet,
		Points:     result.Points,
		Titles:     result.Titles,
		Breakdowns: result.Breakdowns,
		Balances:   h.Balances,
		NFTCount:   h.NFTCount,
		ComputedAt: h.FetchedAt,
		CreatedAt:  s.now().UnixMilli(),
	}

	s.persist(ctx, rec)
	observability.RecordScore(rec.Points, rec.Titles, rec.ComputedAt/1000)

	s.log.Info().
		Str("wallet", rec.Wallet).
		Int64("points", rec.Points).
		Strs("titles", rec.Titles).
		Int("nfts", rec.NFTCount).
		Msg("wallet scored")

	return rec, nil
}

func (s *Service) persist(ctx context.Context, rec *domain.ScoreRecord) {
	save := func(store storage.ScoreStore, target string) {
		err := store.Insert(ctx, rec)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrDuplicateKey):
			s.log.Debug().Str("score_id", rec.ScoreID).Str("target", target).Msg("score already stored")
		default:
			observability.RecordFetchError(observability.StageStore)
			s.log.Warn().Err(err).Str("score_id", rec.ScoreID).Str("target", target).Msg("store score failed")
		}
	}

	save(s.store, "primary")
	for _, m := range s.mirrors {
		save(m, "mirror")
	}
}

// Latest returns the most recent stored score of a wallet.
func (s *Service) Latest(ctx context.Context, wallet string) (*domain.ScoreRecord, error) {
	address, err := normalize(wallet)
	if err != nil {
		return nil, err
	}
	return s.store.GetLatest(ctx, address)
}

// History returns up to limit stored scores of a wallet, newest first.
func (s *Service) History(ctx context.Context, wallet string, limit int) ([]*domain.ScoreRecord, error) {
	address, err := normalize(wallet)
	if err != nil {
		return nil, err
	}
	return s.store.GetHistory(ctx, address, limit)
}

// Leaderboard returns the ranked latest score of every stored wallet.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return s.store.Leaderboard(ctx, limit)
}

func normalize(wallet string) (string, error) {
	pk, err := solana.ParsePublicKey(wallet)
	if err != nil {
		return "", err
	}
	return pk.String(), nil
}
