package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/storage"
)

// ScoreStore implements storage.ScoreStore using PostgreSQL.
type ScoreStore struct {
	pool *Pool
}

// NewScoreStore creates a new ScoreStore.
func NewScoreStore(pool *Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

const scoreColumns = `score_id, wallet, points, titles, breakdowns, balances, nft_count, computed_at, created_at`

// Insert adds a new record. Returns ErrDuplicateKey if score_id exists.
func (s *ScoreStore) Insert(ctx context.Context, r *domain.ScoreRecord) (err error) {
	if err := storage.ValidateScoreRecord(r); err != nil {
		return err
	}
	defer observe("insert", time.Now(), &err)

	titles, breakdowns, balances, err := marshalScoreJSON(r)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO score_records (` + scoreColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.pool.Exec(ctx, query,
		r.ScoreID,
		r.Wallet,
		r.Points,
		titles,
		breakdowns,
		balances,
		r.NFTCount,
		r.ComputedAt,
		r.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert score record: %w", err)
	}
	return nil
}

// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
func (s *ScoreStore) GetByID(ctx context.Context, scoreID string) (*domain.ScoreRecord, error) {
	query := `SELECT ` + scoreColumns + ` FROM score_records WHERE score_id = $1`

	r, err := scanScoreRecord(s.pool.QueryRow(ctx, query, scoreID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get score record by id: %w", err)
	}
	return r, nil
}

// GetLatest retrieves the most recent record of a wallet.
func (s *ScoreStore) GetLatest(ctx context.Context, wallet string) (*domain.ScoreRecord, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM score_records
		WHERE wallet = $1
		ORDER BY computed_at DESC, score_id DESC
		LIMIT 1
	`

	r, err := scanScoreRecord(s.pool.QueryRow(ctx, query, wallet))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest score record: %w", err)
	}
	return r, nil
}

// GetHistory retrieves up to limit records of a wallet, newest first.
func (s *ScoreStore) GetHistory(ctx context.Context, wallet string, limit int) ([]*domain.ScoreRecord, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM score_records
		WHERE wallet = $1
		ORDER BY computed_at DESC, score_id DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, wallet, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query score history: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.ScoreRecord, 0)
	for rows.Next() {
		r, err := scanScoreRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan score record: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score history: %w", err)
	}
	return result, nil
}

// Leaderboard ranks each wallet's latest record by points DESC, wallet ASC.
func (s *ScoreStore) Leaderboard(ctx context.Context, limit int) (entries []domain.LeaderboardEntry, err error) {
	defer observe("leaderboard", time.Now(), &err)

	query := `
		SELECT wallet, points, titles, nft_count, computed_at
		FROM (
			SELECT DISTINCT ON (wallet) wallet, points, titles, nft_count, computed_at
			FROM score_records
			ORDER BY wallet, computed_at DESC, score_id DESC
		) latest
		ORDER BY points DESC, wallet ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries = make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var (
			e      domain.LeaderboardEntry
			titles []byte
		)
		if err := rows.Scan(&e.Wallet, &e.Points, &titles, &e.NFTCount, &e.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		if err := json.Unmarshal(titles, &e.Titles); err != nil {
			return nil, fmt.Errorf("decode titles: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return storage.RankEntries(entries), nil
}

// scanScoreRecord scans a single row into ScoreRecord.
func scanScoreRecord(row pgx.Row) (*domain.ScoreRecord, error) {
	var (
		r                            domain.ScoreRecord
		titles, breakdowns, balances []byte
	)

	err := row.Scan(
		&r.ScoreID,
		&r.Wallet,
		&r.Points,
		&titles,
		&breakdowns,
		&balances,
		&r.NFTCount,
		&r.ComputedAt,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalScoreJSON(&r, titles, breakdowns, balances); err != nil {
		return nil, err
	}
	return &r, nil
}

func marshalScoreJSON(r *domain.ScoreRecord) (titles, breakdowns, balances []byte, err error) {
	t := r.Titles
	if t == nil {
		t = []string{}
	}
	if titles, err = json.Marshal(t); err != nil {
		return nil, nil, nil, fmt.Errorf("encode titles: %w", err)
	}

	b := r.Breakdowns
	if b == nil {
		b = []domain.ScoreBreakdown{}
	}
	if breakdowns, err = json.Marshal(b); err != nil {
		return nil, nil, nil, fmt.Errorf("encode breakdowns: %w", err)
	}

	bal := r.Balances
	if bal == nil {
		bal = domain.TokenBalances{}
	}
	if balances, err = json.Marshal(bal); err != nil {
		return nil, nil, nil, fmt.Errorf("encode balances: %w", err)
	}
	return titles, breakdowns, balances, nil
}

func unmarshalScoreJSON(r *domain.ScoreRecord, titles, breakdowns, balances []byte) error {
	if err := json.Unmarshal(titles, &r.Titles); err != nil {
		return fmt.Errorf("decode titles: %w", err)
	}
	if err := json.Unmarshal(breakdowns, &r.Breakdowns); err != nil {
		return fmt.Errorf("decode breakdowns: %w", err)
	}
	if err := json.Unmarshal(balances, &r.Balances); err != nil {
		return fmt.Errorf("decode balances: %w", err)
	}
	return nil
}

// sqlLimit maps a non-positive limit to "no limit".
func sqlLimit(limit int) int64 {
	if limit <= 0 {
		return math.MaxInt64
	}
	return int64(limit)
}
