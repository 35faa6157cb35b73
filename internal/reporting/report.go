package reporting

import "time"

// Output file names written by Generator.
const (
	MarkdownFile = "LEADERBOARD.md"
	CSVFile      = "leaderboard.csv"
)

// Report is a leaderboard snapshot.
type Report struct {
	GeneratedAt time.Time
	Summary     Summary
	Rows        []LeaderboardRow // ordered by rank
}

// Summary aggregates the leaderboard.
type Summary struct {
	Wallets      int
	TotalPoints  int64
	TopPoints    int64
	MedianPoints int64
	ZeroScores   int
	TitleCounts  []TitleCount // count desc, title asc
}

// TitleCount is how many ranked wallets carry a title.
type TitleCount struct {
	Title string
	Count int
}

// LeaderboardRow is one ranked wallet.
type LeaderboardRow struct {
	Rank       int
	Wallet     string
	Points     int64
	Titles     []string
	NFTCount   int
	ComputedAt int64 // Unix ms
}
