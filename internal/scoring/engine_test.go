package scoring

import (
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retardio-meter/internal/domain"
)

func balancesWith(overrides map[string]float64) domain.TokenBalances {
	b := EmptyBalances()
	for k, v := range overrides {
		b[k] = v
	}
	return b
}

func TestScore_ZeroHoldings(t *testing.T) {
	want := domain.ScoreResult{
		Points: 0,
		Titles: []string{"Fadoor"},
		Breakdowns: []domain.ScoreBreakdown{{
			Category:    "No Holdings",
			Points:      0,
			Explanation: "Zero tokens and zero NFTs",
		}},
	}

	assert.Equal(t, want, Score(EmptyBalances(), 0))
	assert.Equal(t, want, Score(domain.TokenBalances{}, 0), "empty map counts as zero holdings")
	assert.Equal(t, want, Score(nil, 0), "nil map counts as zero holdings")
}

func TestTokenPoints_NonPositiveBalance(t *testing.T) {
	for _, def := range KnownTokens() {
		for _, balance := range []float64{0, -1, -0.0001, -1e9} {
			assert.Equal(t, int64(0), TokenPoints(def.Symbol, balance), "%s balance %v", def.Symbol, balance)
		}
	}
}

func TestTokenPoints_KnownValues(t *testing.T) {
	tests := []struct {
		symbol  string
		balance float64
		want    int64
	}{
		{"RETARDIO", 1000, 48786},
		{"XD", 500, 25411},
		{"MLG", 1000, 35776},
		{"RAPR", 1, 46750},    // normalized to 2000
		{"UWU", 1500, 11560},  // normalized to 100
		{"RETARDIO", 50, 1006}, // dust penalty
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenPoints(tt.symbol, tt.balance))
		})
	}
}

func TestTokenPoints_Monotonic(t *testing.T) {
	balances := []float64{0, 0.001, 0.5, 1, 10, 49.99, 99.99, 100, 100.01, 1000, 12345.678, 1e6, 1e9, 1e12}

	for _, def := range KnownTokens() {
		prev := int64(0)
		for _, b := range balances {
			got := TokenPoints(def.Symbol, b)
			assert.GreaterOrEqual(t, got, prev, "%s: points decreased at balance %v", def.Symbol, b)
			assert.GreaterOrEqual(t, got, int64(0))
			prev = got
		}
	}
}

func TestTokenPoints_DustSuppression(t *testing.T) {
	// Normalized balance just below the threshold is penalized to <= 10%
	// of what it would earn without the penalty.
	below := 99.99
	tier, _ := TierOf("RETARDIO")
	logBalance := math.Log10(below + 1)
	undiscounted := logBalance * basePointsScale * tier.Weight() * math.Pow(logBalance, bagSizeExponent)

	got := TokenPoints("RETARDIO", below)
	assert.LessOrEqual(t, float64(got), undiscounted*0.1)
	assert.Greater(t, TokenPoints("RETARDIO", 100), got*9, "crossing the threshold removes the penalty")

	// UWU normalizes by /15, so the threshold sits at a raw balance of 1500.
	assert.Greater(t, TokenPoints("UWU", 1500), TokenPoints("UWU", 1499)*9)
}

func TestNFTTierFor(t *testing.T) {
	tests := []struct {
		count     int
		wantOK    bool
		threshold int
		title     string
	}{
		{0, false, 0, ""},
		{-3, false, 0, ""},
		{1, true, 1, "Schizo Apprentice"},
		{4, true, 1, "Schizo Apprentice"},
		{5, true, 5, "Based Department"},
		{7, true, 5, "Based Department"},
		{10, true, 10, "Mitch Fanboy"},
		{49, true, 10, "Mitch Fanboy"},
		{50, true, 50, "Supreme Autist"},
		{5000, true, 50, "Supreme Autist"},
	}

	for _, tt := range tests {
		tier, ok := NFTTierFor(tt.count)
		require.Equal(t, tt.wantOK, ok, "count %d", tt.count)
		if ok {
			assert.Equal(t, tt.threshold, tier.Threshold, "count %d", tt.count)
			assert.Equal(t, tt.title, tier.Title, "count %d", tt.count)
		}
	}
}

func TestScore_SingleTokenMaxi(t *testing.T) {
	result := Score(balancesWith(map[string]float64{"RETARDIO": 1000}), 0)

	assert.Equal(t, int64(48786), result.Points)
	assert.Equal(t, []string{"RETARDIO MAXI"}, result.Titles)
	assert.False(t, result.HasTitle(TitleCompletionist))
	require.Len(t, result.Breakdowns, 1)
	assert.Equal(t, domain.ScoreBreakdown{
		Category:    "RETARDIO",
		Points:      48786,
		Explanation: "1000 tokens (Base Token)",
	}, result.Breakdowns[0])
}

func TestScore_NFTMultiplier(t *testing.T) {
	balances := balancesWith(map[string]float64{"RETARDIO": 1000})

	result := Score(balances, 5)
	assert.Equal(t, int64(51225), result.Points)
	assert.Equal(t, []string{"Based Department", "RETARDIO MAXI", "🐬 Dolphin"}, result.Titles)
	require.Len(t, result.Breakdowns, 2)
	assert.Equal(t, domain.ScoreBreakdown{
		Category:    "NFT Bonus",
		Points:      51225 - 48786,
		Explanation: "1.05x multiplier for 5 Retardio Cousins",
	}, result.Breakdowns[1])

	result = Score(balances, 50)
	assert.Equal(t, int64(97572), result.Points)
	assert.Equal(t, "Supreme Autist", result.Titles[0])
	assert.Equal(t, "2x multiplier for 50 Retardio Cousins", result.Breakdowns[1].Explanation)

	result = Score(balances, 7)
	assert.Equal(t, "Based Department", result.Titles[0])

	result = Score(balances, 0)
	for _, b := range result.Breakdowns {
		assert.NotEqual(t, CategoryNFTBonus, b.Category)
	}
}

func TestScore_NFTsWithoutTokens(t *testing.T) {
	result := Score(EmptyBalances(), 1)

	assert.Equal(t, int64(0), result.Points)
	assert.Equal(t, []string{"Schizo Apprentice"}, result.Titles)
	assert.Equal(t, []domain.ScoreBreakdown{{
		Category:    "NFT Bonus",
		Points:      0,
		Explanation: "1.025x multiplier for 1 Retardio Cousins",
	}}, result.Breakdowns)
}

func TestScore_Completionist(t *testing.T) {
	overrides := make(map[string]float64)
	for _, def := range KnownTokens() {
		overrides[def.Symbol] = 1000
	}

	result := Score(balancesWith(overrides), 0)

	assert.True(t, result.HasTitle(TitleCompletionist))
	for _, title := range result.Titles {
		assert.False(t, strings.HasSuffix(title, "MAXI"), "unexpected title %q", title)
	}
	assert.Len(t, result.Breakdowns, KnownTokenCount())

	var sum int64
	for _, b := range result.Breakdowns {
		sum += b.Points
	}
	assert.Equal(t, sum, result.Points)
}

func TestScore_TwoTokensNoHolderTitle(t *testing.T) {
	result := Score(balancesWith(map[string]float64{"RETARDIO": 10, "XD": 10}), 0)

	for _, title := range result.Titles {
		assert.NotEqual(t, TitleCompletionist, title)
		assert.False(t, strings.HasSuffix(title, "MAXI"))
	}
}

func TestScore_WealthBadges(t *testing.T) {
	whale := Score(balancesWith(map[string]float64{"RETARDIO": 1e9}), 0)
	assert.GreaterOrEqual(t, whale.Points, int64(400000))
	assert.True(t, whale.HasTitle(TitleWhale))
	assert.False(t, whale.HasTitle(TitleDolphin))

	dolphin := Score(balancesWith(map[string]float64{"RETARDIO": 1e5}), 0)
	assert.Equal(t, int64(203844), dolphin.Points)
	assert.True(t, dolphin.HasTitle(TitleDolphin))
	assert.False(t, dolphin.HasTitle(TitleWhale))

	plain := Score(balancesWith(map[string]float64{"RETARDIO": 1000}), 0)
	assert.False(t, plain.HasTitle(TitleWhale))
	assert.False(t, plain.HasTitle(TitleDolphin))
}

func TestWealthTitle(t *testing.T) {
	tests := []struct {
		total int64
		want  string
	}{
		{total: 0, want: ""},
		{total: 49999, want: ""},
		{total: 50000, want: TitleDolphin},
		{total: 60000, want: TitleDolphin},
		{total: 399999, want: TitleDolphin},
		{total: 400000, want: TitleWhale},
		{total: 500000, want: TitleWhale},
	}

	for _, tt := range tests {
		got, ok := wealthTitle(tt.total)
		assert.Equal(t, tt.want, got, "total %d", tt.total)
		assert.Equal(t, tt.want != "", ok, "total %d", tt.total)
	}
}

func TestScore_UnknownTokenFallsBackToTier3(t *testing.T) {
	// Unknown symbols are scored with the tier-3 weight and label.
	result := Score(domain.TokenBalances{"NOTATOKEN": 1000}, 0)

	assert.Equal(t, TokenPoints("MLG", 1000), result.Points)
	require.Len(t, result.Breakdowns, 1)
	assert.Equal(t, "1000 tokens (Tier 3 Token)", result.Breakdowns[0].Explanation)
	assert.Equal(t, []string{"NOTATOKEN MAXI"}, result.Titles)

	tier, ok := TierOf("NOTATOKEN")
	assert.False(t, ok)
	assert.Equal(t, Tier3, tier)
}

func TestScore_Idempotent(t *testing.T) {
	balances := balancesWith(map[string]float64{
		"RETARDIO": 12345.678,
		"XD":       500,
		"UWU":      1500,
		"RAPR":     0.25,
		"GLORP":    3,
	})

	first, err := json.Marshal(Score(balances, 12))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := json.Marshal(Score(balances, 12))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestScore_DoesNotMutateInput(t *testing.T) {
	balances := balancesWith(map[string]float64{"RETARDIO": 1000, "XD": 5})
	before := balances.Clone()

	Score(balances, 10)

	assert.Equal(t, before, balances)
}

func TestScore_Concurrent(t *testing.T) {
	balances := balancesWith(map[string]float64{"RETARDIO": 1000, "MLG": 250})
	want := Score(balances, 10)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Score(balances, 10))
		}()
	}
	wg.Wait()
}

func TestEngine_Tracer(t *testing.T) {
	var traces []TokenTrace
	engine := NewEngine(WithTracer(TracerFunc(func(tr TokenTrace) {
		traces = append(traces, tr)
	})))

	points := engine.TokenPoints("RAPR", 1)
	require.Len(t, traces, 1)
	assert.Equal(t, "RAPR", traces[0].Symbol)
	assert.Equal(t, 2000.0, traces[0].Normalized)
	assert.Equal(t, 1.1, traces[0].TierWeight)
	assert.Equal(t, 1.0, traces[0].ThresholdMultiplier)
	assert.Equal(t, points, traces[0].Points)

	engine.TokenPoints("RAPR", 0)
	assert.Len(t, traces, 1, "zero balances short-circuit before tracing")

	// Tracing never changes the result.
	assert.Equal(t, TokenPoints("RAPR", 1), points)
}

func TestEngine_NilTracer(t *testing.T) {
	engine := NewEngine(WithTracer(nil))
	assert.Equal(t, int64(48786), engine.TokenPoints("RETARDIO", 1000))
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		1000:       "1000",
		0.5:        "0.5",
		12345.678:  "12345.678",
		1.025:      "1.025",
		2:          "2",
		1e21:       "1e+21",
		1e-7:       "1e-7",
		0.000001:   "0.000001",
		1234567890: "1234567890",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatNumber(in), "input %v", in)
	}
}
