// Package checksum derives stable identifiers from content.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// DeriveID returns a stable short identifier for a derived entity, built
// from its kind and normalized text (e.g. "ingredient", "chicken-breast").
// Re-importing the same value always yields the same id.
func DeriveID(kind, normalized string) string {
	digest := Sum([]byte(kind + ":" + normalized))
	return strings.ToLower(kind) + "-" + digest[:16]
}
