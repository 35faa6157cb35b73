package scoring

import "retardio-meter/internal/domain"

// CousinsCollection is the Retardio Cousins NFT collection address.
const CousinsCollection = "DUX8SZXLKigc84BBUcYjA7PuKe2SFwXFtQVgwmBsaXKm"

// knownTokens is the fixed token registry in declaration order.
var knownTokens = []domain.TokenDefinition{
	{Symbol: "RETARDIO", Mint: "6ogzHhzdrQr9Pgv6hZ2MNze7UrzBMAFyBBWUYp1Fhitx"},
	{Symbol: "XD", Mint: "DEJiPKx5GActUtB6qUssreUxkhXtL4hTQAAJZ7Ccw8se"},
	{Symbol: "NIGGABUTT", Mint: "8fZL148nnC168RAVCZh4PkjvMZmxMEfMLDhoziWVPnqf"},
	{Symbol: "AUTISM", Mint: "BkVeSP2GsXV3AYoRJBSZTpFE8sXmcuGnRQcFgoWspump"},
	{Symbol: "MLG", Mint: "7XJiwLDrjzxDYdZipnJXzpr1iDTmK55XixSFAa7JgNEL"},
	{Symbol: "RAPR", Mint: "RAPRz9fd87y9qcBGj1VVqUbbUM6DaBggSDA58zc3N2b"},
	{Symbol: "YAKUB", Mint: "7iagMTDPfNSR5zVcERT1To7A9eaQoz58dJAh42EMHcCC"},
	{Symbol: "GLORP", Mint: "FkBF9u1upwEMUPxnXjcydxxVSxgr8f3k1YXbz7G7bmtA"},
	{Symbol: "FLOYDAI", Mint: "J7tYmq2JnQPvxyhcXpCDrvJnc9R5ts8rv7tgVHDPsw7U"},
	{Symbol: "BPD", Mint: "AMzgo1nUni2rDwGWEaWSFVtQdAB3h7kD9zKMSXNK45aY"},
	{Symbol: "UWU", Mint: "UwU8RVXB69Y6Dcju6cN2Qef6fykkq6UUNpB15rZku6Z"},
}

var (
	symbolIndex = indexBy(func(d domain.TokenDefinition) string { return d.Symbol })
	mintIndex   = indexBy(func(d domain.TokenDefinition) string { return d.Mint })
)

func indexBy(key func(domain.TokenDefinition) string) map[string]int {
	idx := make(map[string]int, len(knownTokens))
	for i, d := range knownTokens {
		idx[key(d)] = i
	}
	return idx
}

// KnownTokens returns a copy of the token registry in declaration order.
func KnownTokens() []domain.TokenDefinition {
	out := make([]domain.TokenDefinition, len(knownTokens))
	copy(out, knownTokens)
	return out
}

// KnownTokenCount is the number of tokens a completionist must hold.
func KnownTokenCount() int {
	return len(knownTokens)
}

// TokenBySymbol looks up a registry entry by symbol.
func TokenBySymbol(symbol string) (domain.TokenDefinition, bool) {
	i, ok := symbolIndex[symbol]
	if !ok {
		return domain.TokenDefinition{}, false
	}
	return knownTokens[i], true
}

// TokenByMint looks up a registry entry by mint address.
func TokenByMint(mint string) (domain.TokenDefinition, bool) {
	i, ok := mintIndex[mint]
	if !ok {
		return domain.TokenDefinition{}, false
	}
	return knownTokens[i], true
}

// EmptyBalances returns a balances map with every known symbol set to zero.
func EmptyBalances() domain.TokenBalances {
	b := make(domain.TokenBalances, len(knownTokens))
	for _, d := range knownTokens {
		b[d.Symbol] = 0
	}
	return b
}

// Tier is a token weight class.
type Tier int

const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
)

type tierInfo struct {
	weight float64
	label  string
}

var tierInfos = map[Tier]tierInfo{
	Tier1: {weight: 1.5, label: "Base Token"},
	Tier2: {weight: 1.05, label: "Tier 2 Token"},
	Tier3: {weight: 1.1, label: "Tier 3 Token"},
}

var tokenTiers = map[string]Tier{
	"RETARDIO":  Tier1,
	"XD":        Tier2,
	"AUTISM":    Tier2,
	"GLORP":     Tier2,
	"NIGGABUTT": Tier3,
	"MLG":       Tier3,
	"RAPR":      Tier3,
	"YAKUB":     Tier3,
	"FLOYDAI":   Tier3,
	"BPD":       Tier3,
	"UWU":       Tier3,
}

// Weight returns the tier's point multiplier.
func (t Tier) Weight() float64 { return tierInfos[t].weight }

// Label returns the tier's display label.
func (t Tier) Label() string { return tierInfos[t].label }

// TierOf returns the tier of a symbol. Symbols outside the tier table
// fall back to Tier3 and report ok=false.
func TierOf(symbol string) (tier Tier, ok bool) {
	tier, ok = tokenTiers[symbol]
	if !ok {
		return Tier3, false
	}
	return tier, true
}

// supplyAdjustment rescales balances of tokens with abnormal supply or precision.
type supplyAdjustment struct {
	multiply float64
	divide   float64
}

func (a supplyAdjustment) apply(balance float64) float64 {
	return balance * a.multiply / a.divide
}

var supplyAdjustments = map[string]supplyAdjustment{
	"RAPR": {multiply: 2000, divide: 1},
	"UWU":  {multiply: 1, divide: 15},
}

// Normalize returns the balance used for scoring after supply adjustment.
func Normalize(symbol string, balance float64) float64 {
	adj, ok := supplyAdjustments[symbol]
	if !ok {
		return balance
	}
	return adj.apply(balance)
}

// NFTTier is a Retardio Cousins holding level.
type NFTTier struct {
	Threshold  int
	Multiplier float64
	Title      string
}

// nftTiers is ordered by strictly increasing threshold.
var nftTiers = []NFTTier{
	{Threshold: 1, Multiplier: 1.025, Title: "Schizo Apprentice"},
	{Threshold: 5, Multiplier: 1.05, Title: "Based Department"},
	{Threshold: 10, Multiplier: 1.1, Title: "Mitch Fanboy"},
	{Threshold: 50, Multiplier: 2.0, Title: "Supreme Autist"},
}

// NFTTiers returns a copy of the NFT tier table.
func NFTTiers() []NFTTier {
	out := make([]NFTTier, len(nftTiers))
	copy(out, nftTiers)
	return out
}

// NFTTierFor returns the highest tier whose threshold does not exceed count.
func NFTTierFor(count int) (NFTTier, bool) {
	for i := len(nftTiers) - 1; i >= 0; i-- {
		if count >= nftTiers[i].Threshold {
			return nftTiers[i], true
		}
	}
	return NFTTier{}, false
}

// Titles produced by the engine.
const (
	TitleFadoor        = "Fadoor"
	TitleCompletionist = "Completionist"
	TitleWhale         = "🐋 Whale"
	TitleDolphin       = "🐬 Dolphin"
	maxiSuffix         = " MAXI"
)

// MaxiTitle returns the single-token holder title for a symbol.
func MaxiTitle(symbol string) string {
	return symbol + maxiSuffix
}

// Breakdown categories.
const (
	CategoryNFTBonus   = "NFT Bonus"
	CategoryNoHoldings = "No Holdings"
)

// Scoring constants.
const (
	basePointsScale = 1500.0
	bagSizeExponent = 1.8
	dustThreshold   = 100.0
	dustMultiplier  = 0.1

	whaleThreshold   = 400000
	dolphinThreshold = 50000
)
