package domain

import "sort"

// ScoreBreakdown is one line of a score explanation.
type ScoreBreakdown struct {
	Category    string `json:"category"` // token symbol, "NFT Bonus" or "No Holdings"
	Points      int64  `json:"points"`
	Explanation string `json:"explanation"`
}

// ScoreResult is the output of a single score computation.
// Titles keep evaluation order; breakdowns keep insertion order.
type ScoreResult struct {
	Points     int64            `json:"points"`
	Titles     []string         `json:"titles"`
	Breakdowns []ScoreBreakdown `json:"breakdowns"`
}

// HasTitle reports whether the result carries the given title.
func (r ScoreResult) HasTitle(title string) bool {
	for _, t := range r.Titles {
		if t == title {
			return true
		}
	}
	return false
}

// SortedBreakdowns returns a copy of the breakdowns ordered by points descending.
// Ties keep insertion order.
func (r ScoreResult) SortedBreakdowns() []ScoreBreakdown {
	out := make([]ScoreBreakdown, len(r.Breakdowns))
	copy(out, r.Breakdowns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}
