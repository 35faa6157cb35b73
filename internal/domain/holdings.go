package domain

// Holdings is the complete output of one data-fetch cycle for a wallet.
// The scoring engine consumes it exactly once.
type Holdings struct {
	Wallet    string        // base58 owner address
	Balances  TokenBalances // every known symbol is present, 0 when not held
	NFTCount  int           // assets in the tracked collection
	FetchedAt int64         // Unix timestamp in milliseconds
}
