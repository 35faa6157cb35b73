package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeScoreID computes a deterministic score_id using SHA256.
// Formula: SHA256(wallet|computed_at|points)
// Returns hex-encoded hash (64 characters).
func ComputeScoreID(wallet string, computedAt int64, points int64) string {
	data := fmt.Sprintf("%s|%d|%d", wallet, computedAt, points)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
