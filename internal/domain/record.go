package domain

// ScoreRecord is a persisted score computation for one wallet.
// Corresponds to score_records table.
type ScoreRecord struct {
	ScoreID    string           `json:"score_id"` // PRIMARY KEY, deterministic hash
	Wallet     string           `json:"wallet"`
	Points     int64            `json:"points"`
	Titles     []string         `json:"titles"`
	Breakdowns []ScoreBreakdown `json:"breakdowns"`
	Balances   TokenBalances    `json:"balances"`
	NFTCount   int              `json:"nft_count"`
	ComputedAt int64            `json:"computed_at"` // Unix timestamp in milliseconds
	CreatedAt  int64            `json:"created_at"`  // record creation timestamp (ms)
}

// Result returns the score part of the record.
func (r *ScoreRecord) Result() ScoreResult {
	return ScoreResult{
		Points:     r.Points,
		Titles:     r.Titles,
		Breakdowns: r.Breakdowns,
	}
}

// LeaderboardEntry is a wallet's most recent score ranked against others.
type LeaderboardEntry struct {
	Rank       int      `json:"rank"`
	Wallet     string   `json:"wallet"`
	Points     int64    `json:"points"`
	Titles     []string `json:"titles"`
	NFTCount   int      `json:"nft_count"`
	ComputedAt int64    `json:"computed_at"`
}

// Clone returns a deep copy of the record.
func (r *ScoreRecord) Clone() *ScoreRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Titles = append([]string(nil), r.Titles...)
	cp.Breakdowns = append([]ScoreBreakdown(nil), r.Breakdowns...)
	cp.Balances = r.Balances.Clone()
	return &cp
}

// Entry returns the leaderboard view of the record, unranked.
func (r *ScoreRecord) Entry() LeaderboardEntry {
	return LeaderboardEntry{
		Wallet:     r.Wallet,
		Points:     r.Points,
		Titles:     append([]string(nil), r.Titles...),
		NFTCount:   r.NFTCount,
		ComputedAt: r.ComputedAt,
	}
}
