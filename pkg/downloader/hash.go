package downloader

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashString generates a short SHA256 digest from a given string,
// used to key cached downloads by their source URL.
// It should not be used for cryptographic operations.
func HashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])[:12]
}
