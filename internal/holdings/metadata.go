package holdings

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/solana"
)

// SPL token mint account layout.
const (
	mintAccountSize = 82
	mintSupplyStart = 36
	mintDecimalsAt  = 44
)

// Metaplex metadata account layout.
const (
	metadataKeyV1      = 4
	metadataNameOffset = 1 + 32 + 32 // key, update authority, mint
	maxNameLen         = 100
	maxSymbolLen       = 20
)

// ErrMintNotFound is returned when the mint account does not exist.
var ErrMintNotFound = errors.New("mint account not found")

// Verification is the result of checking one registry token on-chain.
type Verification struct {
	Token    domain.TokenDefinition
	Metadata domain.MintMetadata
	// Issues lists mismatches between the registry and the chain.
	Issues []string
}

// OK reports whether no issues were found.
func (v *Verification) OK() bool {
	return len(v.Issues) == 0
}

// MetadataVerifier confirms that registry tokens match their on-chain mints.
type MetadataVerifier struct {
	rpc solana.RPCClient
	now func() time.Time
}

// NewMetadataVerifier creates a verifier.
func NewMetadataVerifier(rpc solana.RPCClient) *MetadataVerifier {
	return &MetadataVerifier{rpc: rpc, now: time.Now}
}

// FetchMetadata reads the mint account and its Metaplex metadata.
// A missing metadata account leaves Name and Symbol nil.
func (v *MetadataVerifier) FetchMetadata(ctx context.Context, mint string) (*domain.MintMetadata, error) {
	mintKey, err := solana.ParsePublicKey(mint)
	if err != nil {
		return nil, err
	}

	info, err := v.rpc.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("get mint account: %w", err)
	}
	if info == nil {
		return nil, ErrMintNotFound
	}

	meta := &domain.MintMetadata{
		Mint:      mint,
		FetchedAt: v.now().UnixMilli(),
	}
	if err := parseMint(info.Data, meta); err != nil {
		return nil, err
	}

	pda, err := solana.MetadataAddress(mintKey)
	if err != nil {
		return nil, err
	}
	metaInfo, err := v.rpc.GetAccountInfo(ctx, pda.String())
	if err != nil {
		return nil, fmt.Errorf("get metadata account: %w", err)
	}
	if metaInfo != nil {
		parseMetaplex(metaInfo.Data, meta)
	}

	return meta, nil
}

// Verify checks a registry token against its on-chain mint. Mismatches are
// reported as issues; only RPC failures are returned as errors.
func (v *MetadataVerifier) Verify(ctx context.Context, def domain.TokenDefinition) (*Verification, error) {
	result := &Verification{Token: def}

	meta, err := v.FetchMetadata(ctx, def.Mint)
	switch {
	case errors.Is(err, ErrMintNotFound), errors.Is(err, solana.ErrInvalidAddress):
		result.Issues = append(result.Issues, err.Error())
		return result, nil
	case err != nil:
		return nil, fmt.Errorf("verify %s: %w", def.Symbol, err)
	}
	result.Metadata = *meta

	if def.Decimals != nil && *def.Decimals != meta.Decimals {
		result.Issues = append(result.Issues,
			fmt.Sprintf("decimals: registry %d, chain %d", *def.Decimals, meta.Decimals))
	}
	if meta.Symbol == nil {
		result.Issues = append(result.Issues, "no metaplex metadata")
	} else if !symbolMatches(def.Symbol, *meta.Symbol) {
		result.Issues = append(result.Issues,
			fmt.Sprintf("symbol: registry %s, chain %s", def.Symbol, *meta.Symbol))
	}

	return result, nil
}

// VerifyAll verifies every token in defs, in order.
func (v *MetadataVerifier) VerifyAll(ctx context.Context, defs []domain.TokenDefinition) ([]*Verification, error) {
	out := make([]*Verification, 0, len(defs))
	for _, def := range defs {
		res, err := v.Verify(ctx, def)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

func symbolMatches(registry, chain string) bool {
	chain = strings.TrimPrefix(strings.TrimSpace(chain), "$")
	return strings.EqualFold(registry, chain)
}

func parseMint(data string, meta *domain.MintMetadata) error {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("decode mint data: %w", err)
	}
	if len(decoded) < mintAccountSize {
		return fmt.Errorf("mint data too short: %d", len(decoded))
	}

	raw := binary.LittleEndian.Uint64(decoded[mintSupplyStart:mintDecimalsAt])
	meta.Decimals = int(decoded[mintDecimalsAt])

	supply := decimal.NewFromBigInt(new(big.Int).SetUint64(raw), int32(-meta.Decimals)).InexactFloat64()
	meta.Supply = &supply
	return nil
}

// parseMetaplex reads name and symbol from a MetadataV1 account.
// Malformed data leaves meta unchanged.
func parseMetaplex(data string, meta *domain.MintMetadata) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil || len(decoded) <= metadataNameOffset || decoded[0] != metadataKeyV1 {
		return
	}

	name, offset, ok := readBorshString(decoded, metadataNameOffset, maxNameLen)
	if !ok {
		return
	}
	symbol, _, ok := readBorshString(decoded, offset, maxSymbolLen)
	if !ok {
		return
	}

	if name != "" {
		meta.Name = &name
	}
	if symbol != "" {
		meta.Symbol = &symbol
	}
}

// readBorshString reads a u32-length-prefixed string padded with NULs.
func readBorshString(b []byte, offset, maxLen int) (string, int, bool) {
	if offset+4 > len(b) {
		return "", offset, false
	}
	n := int(binary.LittleEndian.Uint32(b[offset:]))
	offset += 4
	if n > maxLen || offset+n > len(b) {
		return "", offset, false
	}
	s := strings.TrimRight(string(b[offset:offset+n]), "\x00")
	return s, offset + n, true
}
