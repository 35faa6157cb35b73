package domain

// TokenDefinition describes a hand-curated SPL token that contributes to a score.
type TokenDefinition struct {
	Symbol   string // unique key used in balances, breakdowns and titles
	Mint     string // on-chain mint address
	Decimals *int   // hand-set precision override; none of the current tokens need one, so on-chain decimals apply
}

// TokenBalances maps token symbol to a decimal-adjusted, non-negative balance.
type TokenBalances map[string]float64

// Clone returns an independent copy of the balances.
func (b TokenBalances) Clone() TokenBalances {
	if b == nil {
		return nil
	}
	out := make(TokenBalances, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// MintMetadata is on-chain information about a token mint.
type MintMetadata struct {
	Mint      string
	Name      *string  // Metaplex name (nullable)
	Symbol    *string  // Metaplex symbol (nullable)
	Decimals  int      // SPL mint decimals
	Supply    *float64 // decimal-adjusted supply (nullable)
	FetchedAt int64    // ms
}
