package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownTokens_Registry(t *testing.T) {
	tokens := KnownTokens()
	require.Len(t, tokens, 11)
	assert.Equal(t, "RETARDIO", tokens[0].Symbol)
	assert.Equal(t, "UWU", tokens[10].Symbol)

	seenSymbols := make(map[string]bool)
	seenMints := make(map[string]bool)
	for _, d := range tokens {
		assert.False(t, seenSymbols[d.Symbol], "duplicate symbol %s", d.Symbol)
		assert.False(t, seenMints[d.Mint], "duplicate mint %s", d.Mint)
		seenSymbols[d.Symbol] = true
		seenMints[d.Mint] = true

		_, ok := TierOf(d.Symbol)
		assert.True(t, ok, "%s has no tier", d.Symbol)

		byMint, ok := TokenByMint(d.Mint)
		require.True(t, ok)
		assert.Equal(t, d.Symbol, byMint.Symbol)
	}
}

func TestKnownTokens_ReturnsCopy(t *testing.T) {
	tokens := KnownTokens()
	tokens[0].Symbol = "MUTATED"

	def, ok := TokenBySymbol("RETARDIO")
	require.True(t, ok)
	assert.Equal(t, "RETARDIO", def.Symbol)
	assert.Equal(t, "RETARDIO", KnownTokens()[0].Symbol)
}

func TestTierWeights(t *testing.T) {
	assert.Equal(t, 1.5, Tier1.Weight())
	assert.Equal(t, 1.05, Tier2.Weight())
	assert.Equal(t, 1.1, Tier3.Weight())
	assert.Equal(t, "Base Token", Tier1.Label())
	assert.Equal(t, "Tier 2 Token", Tier2.Label())
	assert.Equal(t, "Tier 3 Token", Tier3.Label())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 2000.0, Normalize("RAPR", 1))
	assert.Equal(t, 100.0, Normalize("UWU", 1500))
	assert.Equal(t, 7.0, Normalize("UWU", 105))
	assert.Equal(t, 42.0, Normalize("RETARDIO", 42))
}

func TestNFTTiers_StrictlyIncreasing(t *testing.T) {
	tiers := NFTTiers()
	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].Threshold, tiers[i-1].Threshold)
	}
}

func TestEmptyBalances(t *testing.T) {
	b := EmptyBalances()
	assert.Len(t, b, KnownTokenCount())
	for _, v := range b {
		assert.Equal(t, 0.0, v)
	}
}
