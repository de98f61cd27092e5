// Package checksum fingerprints catalog contents.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Lines returns the digest of items joined by newlines, so that reordering
// the list changes the result.
func Lines(items []string) string {
	h := sha256.New()
	for _, s := range items {
		h.Write([]byte(s))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
