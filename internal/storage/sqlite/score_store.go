package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/observability"
	"retardio-meter/internal/storage"
)

// ScoreStore implements storage.ScoreStore using SQLite.
type ScoreStore struct {
	db *DB
}

// NewScoreStore creates a new ScoreStore.
func NewScoreStore(db *DB) *ScoreStore {
	return &ScoreStore{db: db}
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

	titles, err := encode(r.Titles, "[]")
	if err != nil {
		return fmt.Errorf("encode titles: %w", err)
	}
	breakdowns, err := encode(r.Breakdowns, "[]")
	if err != nil {
		return fmt.Errorf("encode breakdowns: %w", err)
	}
	balances, err := encode(r.Balances, "{}")
	if err != nil {
		return fmt.Errorf("encode balances: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO score_records (`+scoreColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ScoreID, r.Wallet, r.Points, titles, breakdowns, balances, r.NFTCount, r.ComputedAt, r.CreatedAt,
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
	row := s.db.QueryRowContext(ctx, `SELECT `+scoreColumns+` FROM score_records WHERE score_id = ?`, scoreID)

	r, err := scanScoreRecord(row)
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
	row := s.db.QueryRowContext(ctx, `
		SELECT `+scoreColumns+`
		FROM score_records
		WHERE wallet = ?
		ORDER BY computed_at DESC, score_id DESC
		LIMIT 1
	`, wallet)

	r, err := scanScoreRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest score record: %w", err)
	}
	return r, nil
}

// GetHistory retrieves up to limit records of a wallet, newest first.
func (s *ScoreStore) GetHistory(ctx context.Context, wallet string, limit int) (_ []*domain.ScoreRecord, err error) {
	defer observe("history", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+scoreColumns+`
		FROM score_records
		WHERE wallet = ?
		ORDER BY computed_at DESC, score_id DESC
		LIMIT ?
	`, wallet, sqliteLimit(limit))
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
func (s *ScoreStore) Leaderboard(ctx context.Context, limit int) (_ []domain.LeaderboardEntry, err error) {
	defer observe("leaderboard", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT wallet, points, titles, nft_count, computed_at
		FROM (
			SELECT wallet, points, titles, nft_count, computed_at,
				ROW_NUMBER() OVER (PARTITION BY wallet ORDER BY computed_at DESC, score_id DESC) AS rn
			FROM score_records
		)
		WHERE rn = 1
		ORDER BY points DESC, wallet ASC
		LIMIT ?
	`, sqliteLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var (
			e      domain.LeaderboardEntry
			titles string
		)
		if err := rows.Scan(&e.Wallet, &e.Points, &titles, &e.NFTCount, &e.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		if err := json.Unmarshal([]byte(titles), &e.Titles); err != nil {
			return nil, fmt.Errorf("decode titles: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return storage.RankEntries(entries), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScoreRecord(row rowScanner) (*domain.ScoreRecord, error) {
	var (
		r                            domain.ScoreRecord
		titles, breakdowns, balances string
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

	if err := json.Unmarshal([]byte(titles), &r.Titles); err != nil {
		return nil, fmt.Errorf("decode titles: %w", err)
	}
	if err := json.Unmarshal([]byte(breakdowns), &r.Breakdowns); err != nil {
		return nil, fmt.Errorf("decode breakdowns: %w", err)
	}
	if err := json.Unmarshal([]byte(balances), &r.Balances); err != nil {
		return nil, fmt.Errorf("decode balances: %w", err)
	}
	return &r, nil
}

// encode marshals v, using empty for nil values.
func encode(v interface{}, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

// sqliteLimit maps a non-positive limit to SQLite's "no limit".
func sqliteLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func observe(op string, start time.Time, err *error) {
	observability.RecordDBQuery("sqlite", op, time.Since(start).Seconds(), *err)
}
