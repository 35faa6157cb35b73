// Package scoring converts wallet holdings into a Retardio score.
//
// The engine is a pure function of its inputs: it holds no mutable state
// and is safe for concurrent use.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"retardio-meter/internal/domain"
)

// Engine computes scores from token balances and an NFT count.
type Engine struct {
	tracer Tracer
}

// Option configures Engine.
type Option func(*Engine)

// WithTracer sets the diagnostic tracer. A nil tracer disables tracing.
func WithTracer(t Tracer) Option {
	return func(e *Engine) {
		if t == nil {
			t = nopTracer{}
		}
		e.tracer = t
	}
}

// NewEngine creates a scoring engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{tracer: nopTracer{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// TokenPoints computes the points for one token using an untraced engine.
func TokenPoints(symbol string, balance float64) int64 {
	return defaultEngine.TokenPoints(symbol, balance)
}

// Score computes a full score using an untraced engine.
func Score(balances domain.TokenBalances, nftCount int) domain.ScoreResult {
	return defaultEngine.Score(balances, nftCount)
}

// TokenPoints computes the points a single token balance contributes.
// Balances <= 0 yield 0 and produce no trace.
func (e *Engine) TokenPoints(symbol string, balance float64) int64 {
	if balance <= 0 {
		return 0
	}

	normalized := Normalize(symbol, balance)

	// log10(n+1) keeps a zero normalized balance at zero instead of -Inf.
	logBalance := math.Log10(normalized + 1)
	basePoints := logBalance * basePointsScale

	tier, _ := TierOf(symbol)
	weight := tier.Weight()

	bagSize := math.Pow(logBalance, bagSizeExponent)

	threshold := 1.0
	if normalized < dustThreshold {
		threshold = dustMultiplier
	}

	points := int64(math.Floor(basePoints * weight * bagSize * threshold))

	e.tracer.TraceToken(TokenTrace{
		Symbol:              symbol,
		Balance:             balance,
		Normalized:          normalized,
		LogBalance:          logBalance,
		BasePoints:          basePoints,
		TierWeight:          weight,
		BagSizeMultiplier:   bagSize,
		ThresholdMultiplier: threshold,
		Points:              points,
	})

	return points
}

// Score computes points, titles and breakdowns for a wallet's holdings.
func (e *Engine) Score(balances domain.TokenBalances, nftCount int) domain.ScoreResult {
	if holdsNothing(balances, nftCount) {
		return domain.ScoreResult{
			Points: 0,
			Titles: []string{TitleFadoor},
			Breakdowns: []domain.ScoreBreakdown{{
				Category:    CategoryNoHoldings,
				Points:      0,
				Explanation: "Zero tokens and zero NFTs",
			}},
		}
	}

	var (
		total      int64
		titles     = []string{}
		breakdowns = []domain.ScoreBreakdown{}
		held       []string
	)

	for _, symbol := range orderedSymbols(balances) {
		balance := balances[symbol]
		if balance <= 0 {
			continue
		}
		held = append(held, symbol)

		points := e.TokenPoints(symbol, balance)
		total += points

		tier, _ := TierOf(symbol)
		breakdowns = append(breakdowns, domain.ScoreBreakdown{
			Category:    symbol,
			Points:      points,
			Explanation: fmt.Sprintf("%s tokens (%s)", formatNumber(balance), tier.Label()),
		})
	}

	if tier, ok := NFTTierFor(nftCount); ok {
		base := total
		total = int64(math.Floor(float64(total) * tier.Multiplier))
		titles = append(titles, tier.Title)
		breakdowns = append(breakdowns, domain.ScoreBreakdown{
			Category: CategoryNFTBonus,
			Points:   total - base,
			Explanation: fmt.Sprintf("%sx multiplier for %d Retardio Cousins",
				formatNumber(tier.Multiplier), nftCount),
		})
	}

	switch len(held) {
	case KnownTokenCount():
		titles = append(titles, TitleCompletionist)
	case 1:
		titles = append(titles, MaxiTitle(held[0]))
	}

	if title, ok := wealthTitle(total); ok {
		titles = append(titles, title)
	}

	return domain.ScoreResult{
		Points:     total,
		Titles:     titles,
		Breakdowns: breakdowns,
	}
}

// wealthTitle returns the badge earned by a final total, if any.
func wealthTitle(total int64) (string, bool) {
	switch {
	case total >= whaleThreshold:
		return TitleWhale, true
	case total >= dolphinThreshold:
		return TitleDolphin, true
	default:
		return "", false
	}
}

// holdsNothing reports whether every balance is exactly zero and no NFTs are held.
func holdsNothing(balances domain.TokenBalances, nftCount int) bool {
	if nftCount != 0 {
		return false
	}
	for _, b := range balances {
		if b != 0 {
			return false
		}
	}
	return true
}

// orderedSymbols returns known symbols in registry order followed by any
// unknown symbols sorted lexically, so repeated calls build identical results.
func orderedSymbols(balances domain.TokenBalances) []string {
	out := make([]string, 0, len(balances))
	for _, d := range knownTokens {
		if _, ok := balances[d.Symbol]; ok {
			out = append(out, d.Symbol)
		}
	}

	var unknown []string
	for symbol := range balances {
		if _, ok := symbolIndex[symbol]; !ok {
			unknown = append(unknown, symbol)
		}
	}
	sort.Strings(unknown)

	return append(out, unknown...)
}

// formatNumber renders a float the way the score explanations always have:
// shortest round-trip digits, exponent form only for very large or tiny values.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads the exponent to two digits ("1e-07"); drop the padding.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
