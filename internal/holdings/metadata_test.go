package holdings

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retardio-meter/internal/domain"
	"retardio-meter/internal/solana"
	"retardio-meter/internal/solana/stub"
)

func mintData(supply uint64, decimals uint8) string {
	b := make([]byte, mintAccountSize)
	binary.LittleEndian.PutUint64(b[mintSupplyStart:], supply)
	b[mintDecimalsAt] = decimals
	b[45] = 1 // initialized
	return base64.StdEncoding.EncodeToString(b)
}

func borsh(s string, padTo int) []byte {
	padded := make([]byte, padTo)
	copy(padded, s)
	out := make([]byte, 4, 4+padTo)
	binary.LittleEndian.PutUint32(out, uint32(padTo))
	return append(out, padded...)
}

func metaplexData(name, symbol string) string {
	b := make([]byte, metadataNameOffset)
	b[0] = metadataKeyV1
	b = append(b, borsh(name, 32)...)
	b = append(b, borsh(symbol, 10)...)
	b = append(b, borsh("https://example.com/meta.json", 200)...)
	return base64.StdEncoding.EncodeToString(b)
}

func addMint(t *testing.T, rpc *stub.RPCClient, mint string, supply uint64, decimals uint8, name, symbol string) {
	t.Helper()
	rpc.Accounts[mint] = &solana.AccountInfo{Owner: solana.TokenProgramID, Data: mintData(supply, decimals)}
	if symbol == "" {
		return
	}
	pda, err := solana.MetadataAddress(solana.MustPublicKey(mint))
	require.NoError(t, err)
	rpc.Accounts[pda.String()] = &solana.AccountInfo{Owner: solana.MetaplexProgramID, Data: metaplexData(name, symbol)}
}

func TestFetchMetadata(t *testing.T) {
	rpc := stub.NewRPCClient()
	mint := mintOf(t, "RETARDIO")
	addMint(t, rpc, mint, 999_000_000_000_000, 6, "RETARDIO", "RETARDIO")

	meta, err := NewMetadataVerifier(rpc).FetchMetadata(context.Background(), mint)
	require.NoError(t, err)

	assert.Equal(t, mint, meta.Mint)
	assert.Equal(t, 6, meta.Decimals)
	require.NotNil(t, meta.Supply)
	assert.Equal(t, 999_000_000.0, *meta.Supply)
	require.NotNil(t, meta.Name)
	assert.Equal(t, "RETARDIO", *meta.Name, "NUL padding trimmed")
	require.NotNil(t, meta.Symbol)
	assert.Equal(t, "RETARDIO", *meta.Symbol)
}

func TestFetchMetadata_NoMetaplexAccount(t *testing.T) {
	rpc := stub.NewRPCClient()
	mint := mintOf(t, "XD")
	addMint(t, rpc, mint, 1000, 0, "", "")

	meta, err := NewMetadataVerifier(rpc).FetchMetadata(context.Background(), mint)
	require.NoError(t, err)
	assert.Nil(t, meta.Name)
	assert.Nil(t, meta.Symbol)
}

func TestFetchMetadata_Errors(t *testing.T) {
	rpc := stub.NewRPCClient()
	v := NewMetadataVerifier(rpc)

	_, err := v.FetchMetadata(context.Background(), mintOf(t, "BPD"))
	assert.ErrorIs(t, err, ErrMintNotFound)

	rpc.Accounts[mintOf(t, "BPD")] = &solana.AccountInfo{Data: base64.StdEncoding.EncodeToString([]byte{1, 2, 3})}
	_, err = v.FetchMetadata(context.Background(), mintOf(t, "BPD"))
	assert.ErrorContains(t, err, "too short")

	boom := errors.New("timeout")
	rpc.AccountErr = boom
	_, err = v.FetchMetadata(context.Background(), mintOf(t, "BPD"))
	assert.ErrorIs(t, err, boom)
}

func TestVerify(t *testing.T) {
	rpc := stub.NewRPCClient()
	addMint(t, rpc, mintOf(t, "GLORP"), 1_000_000_000, 6, "Glorp", "$glorp")
	addMint(t, rpc, mintOf(t, "MLG"), 1_000_000_000, 6, "Major League", "MLGX")
	v := NewMetadataVerifier(rpc)

	ok, err := v.Verify(context.Background(), domain.TokenDefinition{Symbol: "GLORP", Mint: mintOf(t, "GLORP")})
	require.NoError(t, err)
	assert.True(t, ok.OK(), "symbol matching ignores case and a leading $: %v", ok.Issues)

	mismatch, err := v.Verify(context.Background(), domain.TokenDefinition{Symbol: "MLG", Mint: mintOf(t, "MLG")})
	require.NoError(t, err)
	assert.False(t, mismatch.OK())
	assert.Contains(t, mismatch.Issues[0], "symbol")

	seven := 7
	wrongDecimals, err := v.Verify(context.Background(), domain.TokenDefinition{Symbol: "GLORP", Mint: mintOf(t, "GLORP"), Decimals: &seven})
	require.NoError(t, err)
	assert.Contains(t, wrongDecimals.Issues, "decimals: registry 7, chain 6")

	missing, err := v.Verify(context.Background(), domain.TokenDefinition{Symbol: "YAKUB", Mint: mintOf(t, "YAKUB")})
	require.NoError(t, err)
	assert.False(t, missing.OK())
}

func TestVerifyAll_StopsOnRPCError(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AccountErr = errors.New("down")

	defs := []domain.TokenDefinition{{Symbol: "XD", Mint: mintOf(t, "XD")}}
	_, err := NewMetadataVerifier(rpc).VerifyAll(context.Background(), defs)
	assert.Error(t, err)
}

func TestReadBorshString_RejectsOversizedLength(t *testing.T) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b, 1<<20)

	_, _, ok := readBorshString(b, 0, maxNameLen)
	assert.False(t, ok)
}
