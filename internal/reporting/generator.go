package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/observability"
)

// LeaderboardSource provides ranked latest scores.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// Generator produces leaderboard reports from stored scores.
type Generator struct {
	source LeaderboardSource
	limit  int
	now    func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. A limit <= 0 includes every wallet.
func NewGenerator(source LeaderboardSource, limit int) *Generator {
	return &Generator{
		source: source,
		limit:  limit,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Build assembles the report without writing it.
func (g *Generator) Build(ctx context.Context) (*Report, error) {
	entries, err := g.source.Leaderboard(ctx, g.limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	rows := make([]LeaderboardRow, len(entries))
	for i, e := range entries {
		rows[i] = LeaderboardRow{
			Rank:       e.Rank,
			Wallet:     e.Wallet,
			Points:     e.Points,
			Titles:     e.Titles,
			NFTCount:   e.NFTCount,
			ComputedAt: e.ComputedAt,
		}
	}

	return &Report{
		GeneratedAt: g.now(),
		Summary:     summarize(rows),
		Rows:        rows,
	}, nil
}

// Generate builds the report and writes LEADERBOARD.md and leaderboard.csv
// into outDir.
func (g *Generator) Generate(ctx context.Context, outDir string) (*Report, error) {
	report, err := g.Build(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	mdPath := filepath.Join(outDir, MarkdownFile)
	if err := os.WriteFile(mdPath, []byte(RenderMarkdown(report)), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", MarkdownFile, err)
	}

	csvData, err := RenderCSV(report.Rows)
	if err != nil {
		return nil, err
	}
	csvPath := filepath.Join(outDir, CSVFile)
	if err := os.WriteFile(csvPath, []byte(csvData), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", CSVFile, err)
	}

	observability.RecordReportGenerated()
	return report, nil
}

func summarize(rows []LeaderboardRow) Summary {
	s := Summary{Wallets: len(rows)}
	if len(rows) == 0 {
		return s
	}

	counts := make(map[string]int)
	points := make([]int64, 0, len(rows))
	for _, r := range rows {
		s.TotalPoints += r.Points
		if r.Points > s.TopPoints {
			s.TopPoints = r.Points
		}
		if r.Points == 0 {
			s.ZeroScores++
		}
		points = append(points, r.Points)
		for _, t := range r.Titles {
			counts[t]++
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })
	s.MedianPoints = points[len(points)/2]

	for title, n := range counts {
		s.TitleCounts = append(s.TitleCounts, TitleCount{Title: title, Count: n})
	}
	sort.Slice(s.TitleCounts, func(i, j int) bool {
		if s.TitleCounts[i].Count != s.TitleCounts[j].Count {
			return s.TitleCounts[i].Count > s.TitleCounts[j].Count
		}
		return s.TitleCounts[i].Title < s.TitleCounts[j].Title
	})
	return s
}
