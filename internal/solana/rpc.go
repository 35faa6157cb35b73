package solana

import "context"

// Well-known program IDs.
const (
	TokenProgramID    = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	MetaplexProgramID = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
)

// RPCClient defines the Solana RPC HTTP interface used to read wallet holdings.
type RPCClient interface {
	// GetTokenAccountsByOwner retrieves parsed SPL token accounts owned by a wallet.
	GetTokenAccountsByOwner(ctx context.Context, owner, programID string) ([]TokenAccount, error)

	// GetAssetsByOwner retrieves one page of DAS assets owned by a wallet.
	// Pages are 1-based; an empty page marks the end.
	GetAssetsByOwner(ctx context.Context, owner string, page, limit int) (*AssetPage, error)

	// GetAccountInfo retrieves raw account data. Returns nil if account not found.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)
}
