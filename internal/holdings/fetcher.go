// Package holdings reads a wallet's scored token balances and NFT count
// from Solana RPC.
package holdings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/observability"
	"retardio-meter/internal/scoring"
	"retardio-meter/internal/solana"
)

// DefaultPageLimit is the DAS page size used for NFT enumeration.
const DefaultPageLimit = 1000

// defaultMaxPages bounds NFT paging against a node that never returns an
// empty page.
const defaultMaxPages = 10000

// ErrTooManyPages is returned when NFT paging does not terminate.
var ErrTooManyPages = errors.New("nft paging did not terminate")

// FetchError wraps a failure in one stage of a holdings fetch.
type FetchError struct {
	Stage string // observability.StageTokens or observability.StageNFTs
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher collects the holdings the scoring engine consumes.
type Fetcher struct {
	rpc        solana.RPCClient
	collection string
	pageLimit  int
	maxPages   int
	log        zerolog.Logger
	now        func() time.Time
}

// Option configures Fetcher.
type Option func(*Fetcher)

// WithPageLimit sets the DAS page size.
func WithPageLimit(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.pageLimit = n
		}
	}
}

// WithMaxPages caps the number of DAS pages read per wallet.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxPages = n
		}
	}
}

// WithCollection overrides the counted NFT collection.
func WithCollection(address string) Option {
	return func(f *Fetcher) {
		f.collection = address
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.log = l
	}
}

// WithClock sets the time source used for FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// NewFetcher creates a holdings fetcher.
func NewFetcher(rpc solana.RPCClient, opts ...Option) *Fetcher {
	f := &Fetcher{
		rpc:        rpc,
		collection: scoring.CousinsCollection,
		pageLimit:  DefaultPageLimit,
		maxPages:   defaultMaxPages,
		log:        zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.With().Str("component", "holdings").Logger()
	return f
}

// Fetch validates the wallet address and reads its balances and NFT count.
// The returned balances contain every known symbol. No partial holdings are
// returned on error.
func (f *Fetcher) Fetch(ctx context.Context, wallet string) (*domain.Holdings, error) {
	owner, err := solana.ParsePublicKey(wallet)
	if err != nil {
		return nil, err
	}
	address := owner.String()

	start := time.Now()
	defer func() {
		observability.RecordFetch(time.Since(start).Seconds())
	}()

	balances, err := f.TokenBalances(ctx, address)
	if err != nil {
		observability.RecordFetchError(observability.StageTokens)
		return nil, &FetchError{Stage: observability.StageTokens, Err: err}
	}

	nfts, err := f.CountNFTs(ctx, address)
	if err != nil {
		observability.RecordFetchError(observability.StageNFTs)
		return nil, &FetchError{Stage: observability.StageNFTs, Err: err}
	}

	f.log.Debug().
		Str("wallet", address).
		Int("nfts", nfts).
		Dur("elapsed", time.Since(start)).
		Msg("holdings fetched")

	return &domain.Holdings{
		Wallet:    address,
		Balances:  balances,
		NFTCount:  nfts,
		FetchedAt: f.now().UnixMilli(),
	}, nil
}

// TokenBalances returns decimal-adjusted balances of the known tokens held
// by owner. Accounts of the same mint are summed; accounts that cannot be
// parsed are skipped.
func (f *Fetcher) TokenBalances(ctx context.Context, owner string) (domain.TokenBalances, error) {
	accounts, err := f.rpc.GetTokenAccountsByOwner(ctx, owner, solana.TokenProgramID)
	if err != nil {
		return nil, fmt.Errorf("get token accounts: %w", err)
	}

	sums := make(map[string]decimal.Decimal)
	for _, acct := range accounts {
		if !acct.Parsed {
			f.skip(acct, "account data not parsed")
			continue
		}

		def, ok := scoring.TokenByMint(acct.Mint)
		if !ok {
			continue
		}

		amount, err := decimal.NewFromString(acct.Amount)
		if err != nil {
			f.skip(acct, "invalid amount")
			continue
		}

		sums[def.Symbol] = sums[def.Symbol].Add(scaleAmount(amount, def, acct.Decimals))
	}

	balances := scoring.EmptyBalances()
	for symbol, sum := range sums {
		balances[symbol] = sum.InexactFloat64()
	}
	return balances, nil
}

// scaleAmount converts a raw amount to token units. A registry precision
// overrides the decimals the chain reports.
func scaleAmount(raw decimal.Decimal, def domain.TokenDefinition, onChainDecimals int) decimal.Decimal {
	decimals := onChainDecimals
	if def.Decimals != nil {
		decimals = *def.Decimals
	}
	return raw.Shift(int32(-decimals))
}

func (f *Fetcher) skip(acct solana.TokenAccount, reason string) {
	observability.RecordSkippedTokenAccount()
	f.log.Warn().
		Str("account", acct.Pubkey).
		Str("mint", acct.Mint).
		Str("reason", reason).
		Msg("skipping token account")
}

// CountNFTs pages through owner's DAS assets, starting at page 1, until an
// empty page and counts those in the tracked collection.
func (f *Fetcher) CountNFTs(ctx context.Context, owner string) (int, error) {
	count := 0
	for page := 1; ; page++ {
		if page > f.maxPages {
			return 0, fmt.Errorf("%w after %d pages", ErrTooManyPages, f.maxPages)
		}

		result, err := f.rpc.GetAssetsByOwner(ctx, owner, page, f.pageLimit)
		if err != nil {
			return 0, fmt.Errorf("get assets page %d: %w", page, err)
		}
		if len(result.Items) == 0 {
			return count, nil
		}

		for _, asset := range result.Items {
			if asset.InGroup("collection", f.collection) {
				count++
			}
		}
	}
}
