package solana

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// PublicKeyLength is the size of an ed25519 public key in bytes.
const PublicKeyLength = 32

// ErrInvalidAddress is returned when a string is not a base58 32-byte public key.
var ErrInvalidAddress = errors.New("invalid wallet address")

// ErrNoViableBump is returned when no bump seed yields an off-curve address.
var ErrNoViableBump = errors.New("unable to find a viable program address bump seed")

// PublicKey is a Solana account address.
type PublicKey [PublicKeyLength]byte

// ParsePublicKey decodes a base58 address into a PublicKey.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	if s == "" {
		return pk, ErrInvalidAddress
	}

	decoded, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(decoded) != PublicKeyLength {
		return pk, fmt.Errorf("%w: decoded length %d", ErrInvalidAddress, len(decoded))
	}

	copy(pk[:], decoded)
	return pk, nil
}

// MustPublicKey parses a known-good address and panics on failure.
func MustPublicKey(s string) PublicKey {
	pk, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// String returns the base58 form of the key.
func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// IsOnCurve reports whether the key is a valid ed25519 point.
// Program derived addresses are off-curve and cannot sign.
func (pk PublicKey) IsOnCurve() bool {
	return isOnCurve(pk[:])
}

func isOnCurve(point []byte) bool {
	if len(point) != PublicKeyLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// FindProgramAddress derives a program derived address and its bump seed.
// Seeds: seeds || bump || programID || "ProgramDerivedAddress", SHA256,
// searching bumps from 255 down until the hash is off the ed25519 curve.
func FindProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, seed := range seeds {
			h.Write(seed)
		}
		h.Write([]byte{byte(bump)})
		h.Write(programID[:])
		h.Write([]byte("ProgramDerivedAddress"))

		var candidate PublicKey
		copy(candidate[:], h.Sum(nil))

		if !candidate.IsOnCurve() {
			return candidate, uint8(bump), nil
		}
	}
	return PublicKey{}, 0, ErrNoViableBump
}

// MetadataAddress derives the Metaplex token metadata PDA for a mint.
func MetadataAddress(mint PublicKey) (PublicKey, error) {
	program := MustPublicKey(MetaplexProgramID)
	pda, _, err := FindProgramAddress([][]byte{
		[]byte("metadata"),
		program[:],
		mint[:],
	}, program)
	if err != nil {
		return PublicKey{}, fmt.Errorf("derive metadata address: %w", err)
	}
	return pda, nil
}
