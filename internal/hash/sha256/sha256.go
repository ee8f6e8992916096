// Package sha256 provides the digest used for hash-only storage.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher implements crawler.Hasher using SHA-256.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the 64-character hex digest of data. This is what gets
// written to disk in place of binary payloads.
func (h *Hasher) Hash(data []byte) (string, error) {
	return Sum(data), nil
}

// Sum computes the hex digest directly.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
