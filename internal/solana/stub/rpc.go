// Package stub provides an in-memory solana.RPCClient for tests.
package stub

import (
	"context"
	"sync"

	"retardio-meter/internal/solana"
)

// RPCClient implements solana.RPCClient from in-memory fixtures.
// Assets are served in pages of the requested limit.
type RPCClient struct {
	mu sync.Mutex

	TokenAccounts map[string][]solana.TokenAccount
	Assets        map[string][]solana.Asset
	Accounts      map[string]*solana.AccountInfo

	TokenErr   error
	AccountErr error
	AssetsErr  error
	// AssetsErrPage limits AssetsErr to one page; zero fails every page.
	AssetsErrPage int

	calls map[string]int
}

// NewRPCClient creates an empty stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		TokenAccounts: make(map[string][]solana.TokenAccount),
		Assets:        make(map[string][]solana.Asset),
		Accounts:      make(map[string]*solana.AccountInfo),
		calls:         make(map[string]int),
	}
}

// GetTokenAccountsByOwner returns the fixture accounts of owner.
func (c *RPCClient) GetTokenAccountsByOwner(_ context.Context, owner, _ string) ([]solana.TokenAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["getTokenAccountsByOwner"]++

	if c.TokenErr != nil {
		return nil, c.TokenErr
	}
	return append([]solana.TokenAccount(nil), c.TokenAccounts[owner]...), nil
}

// GetAssetsByOwner returns one page of the fixture assets of owner.
func (c *RPCClient) GetAssetsByOwner(_ context.Context, owner string, page, limit int) (*solana.AssetPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["getAssetsByOwner"]++

	if c.AssetsErr != nil && (c.AssetsErrPage == 0 || c.AssetsErrPage == page) {
		return nil, c.AssetsErr
	}

	all := c.Assets[owner]
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	return &solana.AssetPage{
		Total: end - start,
		Limit: limit,
		Page:  page,
		Items: append([]solana.Asset(nil), all[start:end]...),
	}, nil
}

// GetAccountInfo returns the fixture account, or nil when absent.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["getAccountInfo"]++

	if c.AccountErr != nil {
		return nil, c.AccountErr
	}
	info, ok := c.Accounts[pubkey]
	if !ok {
		return nil, nil
	}
	cp := *info
	return &cp, nil
}

// AddTokenAccount adds a parsed token account for owner.
func (c *RPCClient) AddTokenAccount(owner, mint, amount string, decimals int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TokenAccounts[owner] = append(c.TokenAccounts[owner], solana.TokenAccount{
		Pubkey:   mint + "-" + owner,
		Mint:     mint,
		Owner:    owner,
		Amount:   amount,
		Decimals: decimals,
		Parsed:   true,
	})
}

// AddNFTs adds n assets in the given collection for owner.
func (c *RPCClient) AddNFTs(owner, collection string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < n; i++ {
		c.Assets[owner] = append(c.Assets[owner], solana.Asset{
			Interface: "V1_NFT",
			Grouping:  []solana.AssetGroup{{Key: "collection", Value: collection}},
		})
	}
}

// Calls returns how many times method was invoked.
func (c *RPCClient) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

var _ solana.RPCClient = (*RPCClient)(nil)
