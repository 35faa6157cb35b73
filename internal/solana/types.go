package solana

// TokenAccount is an SPL token account as returned with jsonParsed encoding.
type TokenAccount struct {
	Pubkey   string
	Mint     string
	Owner    string
	Amount   string // raw integer amount, base units
	Decimals int
	// Parsed is false when the account data could not be decoded;
	// only Pubkey is meaningful then.
	Parsed bool
}

// AssetPage is one page of a DAS getAssetsByOwner response.
type AssetPage struct {
	Total int
	Limit int
	Page  int
	Items []Asset
}

// Asset is a DAS asset (NFT or compressed NFT).
type Asset struct {
	ID        string
	Interface string
	Grouping  []AssetGroup
}

// AssetGroup is a grouping entry of an asset, e.g. its collection.
type AssetGroup struct {
	Key   string `json:"group_key"`
	Value string `json:"group_value"`
}

// InGroup reports whether the asset has a grouping with the given key and value.
func (a Asset) InGroup(key, value string) bool {
	for _, g := range a.Grouping {
		if g.Key == key && g.Value == value {
			return true
		}
	}
	return false
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Data       string `json:"data"` // base64 encoded
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rentEpoch"`
}
