package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Retardio Meter Leaderboard\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Wallets | %d |\n", r.Summary.Wallets))
	sb.WriteString(fmt.Sprintf("| Total Points | %d |\n", r.Summary.TotalPoints))
	sb.WriteString(fmt.Sprintf("| Top Score | %d |\n", r.Summary.TopPoints))
	sb.WriteString(fmt.Sprintf("| Median Score | %d |\n", r.Summary.MedianPoints))
	sb.WriteString(fmt.Sprintf("| Zero Scores | %d |\n", r.Summary.ZeroScores))
	sb.WriteString("\n")

	// Titles
	sb.WriteString("## Titles\n\n")
	if len(r.Summary.TitleCounts) > 0 {
		sb.WriteString("| Title | Wallets |\n")
		sb.WriteString("|-------|---------|\n")
		for _, tc := range r.Summary.TitleCounts {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", escapeCell(tc.Title), tc.Count))
		}
	} else {
		sb.WriteString("No titles awarded.\n")
	}
	sb.WriteString("\n")

	// Rankings
	sb.WriteString("## Rankings\n\n")
	if len(r.Rows) > 0 {
		sb.WriteString("| Rank | Wallet | Points | NFTs | Titles | Scored At |\n")
		sb.WriteString("|------|--------|--------|------|--------|-----------|\n")
		for _, row := range r.Rows {
			sb.WriteString(fmt.Sprintf("| %d | `%s` | %d | %d | %s | %s |\n",
				row.Rank, row.Wallet, row.Points, row.NFTCount,
				escapeCell(strings.Join(row.Titles, ", ")),
				time.UnixMilli(row.ComputedAt).UTC().Format(time.RFC3339)))
		}
	} else {
		sb.WriteString("No scores recorded.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
