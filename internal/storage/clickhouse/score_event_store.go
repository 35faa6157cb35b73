package clickhouse

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/storage"
)

// ScoreEventStore implements storage.ScoreStore on the score_events
// analytics table. ClickHouse does not enforce keys, so uniqueness is
// checked before insert.
type ScoreEventStore struct {
	conn *Conn
}

// NewScoreEventStore creates a new ScoreEventStore.
func NewScoreEventStore(conn *Conn) *ScoreEventStore {
	return &ScoreEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreEventStore)(nil)

const scoreEventColumns = `score_id, wallet, points, titles, breakdowns, balances, nft_count, computed_at, created_at`

// Insert adds a new record. Returns ErrDuplicateKey if score_id exists.
func (s *ScoreEventStore) Insert(ctx context.Context, r *domain.ScoreRecord) (err error) {
	if err := storage.ValidateScoreRecord(r); err != nil {
		return err
	}
	defer observe("insert", time.Now(), &err)

	exists, err := s.exists(ctx, r.ScoreID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	breakdowns, err := json.Marshal(r.Breakdowns)
	if err != nil {
		return fmt.Errorf("encode breakdowns: %w", err)
	}
	balances, err := json.Marshal(r.Balances)
	if err != nil {
		return fmt.Errorf("encode balances: %w", err)
	}
	titles := r.Titles
	if titles == nil {
		titles = []string{}
	}

	query := `INSERT INTO score_events (` + scoreEventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err = s.conn.Exec(ctx, query,
		r.ScoreID,
		r.Wallet,
		r.Points,
		titles,
		string(breakdowns),
		string(balances),
		uint32(r.NFTCount),
		r.ComputedAt,
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert score event: %w", err)
	}
	return nil
}

// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
func (s *ScoreEventStore) GetByID(ctx context.Context, scoreID string) (*domain.ScoreRecord, error) {
	query := `SELECT ` + scoreEventColumns + ` FROM score_events FINAL WHERE score_id = ? LIMIT 1`

	r, err := s.queryOne(ctx, query, scoreID)
	if err != nil {
		return nil, fmt.Errorf("get score event by id: %w", err)
	}
	return r, nil
}

// GetLatest retrieves the most recent record of a wallet.
func (s *ScoreEventStore) GetLatest(ctx context.Context, wallet string) (*domain.ScoreRecord, error) {
	query := `
		SELECT ` + scoreEventColumns + `
		FROM score_events FINAL
		WHERE wallet = ?
		ORDER BY computed_at DESC, score_id DESC
		LIMIT 1
	`

	r, err := s.queryOne(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get latest score event: %w", err)
	}
	return r, nil
}

// GetHistory retrieves up to limit records of a wallet, newest first.
func (s *ScoreEventStore) GetHistory(ctx context.Context, wallet string, limit int) ([]*domain.ScoreRecord, error) {
	query := `
		SELECT ` + scoreEventColumns + `
		FROM score_events FINAL
		WHERE wallet = ?
		ORDER BY computed_at DESC, score_id DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, wallet, chLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query score history: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.ScoreRecord, 0)
	for rows.Next() {
		r, err := scanScoreEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score history: %w", err)
	}
	return result, nil
}

// Leaderboard ranks each wallet's latest record by points DESC, wallet ASC.
func (s *ScoreEventStore) Leaderboard(ctx context.Context, limit int) (entries []domain.LeaderboardEntry, err error) {
	defer observe("leaderboard", time.Now(), &err)

	query := `
		SELECT
			wallet,
			argMax(points, (computed_at, score_id)) AS latest_points,
			argMax(titles, (computed_at, score_id)) AS latest_titles,
			argMax(nft_count, (computed_at, score_id)) AS latest_nft_count,
			max(computed_at) AS latest_computed_at
		FROM score_events FINAL
		GROUP BY wallet
		ORDER BY latest_points DESC, wallet ASC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, chLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries = make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var (
			e   domain.LeaderboardEntry
			nft uint32
		)
		if err := rows.Scan(&e.Wallet, &e.Points, &e.Titles, &nft, &e.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.NFTCount = int(nft)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return storage.RankEntries(entries), nil
}

func (s *ScoreEventStore) queryOne(ctx context.Context, query string, args ...interface{}) (*domain.ScoreRecord, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, storage.ErrNotFound
	}
	return scanScoreEvent(rows)
}

func (s *ScoreEventStore) exists(ctx context.Context, scoreID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count() FROM score_events WHERE score_id = ?`, scoreID).Scan(&count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScoreEvent(row rowScanner) (*domain.ScoreRecord, error) {
	var (
		r                    domain.ScoreRecord
		breakdowns, balances string
		nft                  uint32
	)

	err := row.Scan(
		&r.ScoreID,
		&r.Wallet,
		&r.Points,
		&r.Titles,
		&breakdowns,
		&balances,
		&nft,
		&r.ComputedAt,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan score event: %w", err)
	}
	r.NFTCount = int(nft)

	if err := json.Unmarshal([]byte(breakdowns), &r.Breakdowns); err != nil {
		return nil, fmt.Errorf("decode breakdowns: %w", err)
	}
	if err := json.Unmarshal([]byte(balances), &r.Balances); err != nil {
		return nil, fmt.Errorf("decode balances: %w", err)
	}
	return &r, nil
}

// chLimit maps a non-positive limit to "no limit".
func chLimit(limit int) uint64 {
	if limit <= 0 {
		return math.MaxInt64
	}
	return uint64(limit)
}
