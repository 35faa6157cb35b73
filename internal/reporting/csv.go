package reporting

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

var csvHeader = []string{"rank", "wallet", "points", "nft_count", "titles", "computed_at"}

// RenderCSV renders leaderboard rows as CSV string. Titles are joined with "; ".
func RenderCSV(rows []LeaderboardRow) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Rank),
			r.Wallet,
			strconv.FormatInt(r.Points, 10),
			strconv.Itoa(r.NFTCount),
			strings.Join(r.Titles, "; "),
			strconv.FormatInt(r.ComputedAt, 10),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}
