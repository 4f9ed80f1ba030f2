package tenant

import (
	"crypto/sha256"
	"encoding/hex"
)

// Resolve maps a venue's shared secret to its tenant id: the first 128 bits
// of SHA-256 over the secret's bytes, hex encoded (32 chars). There is no
// registry — the same secret always lands in the same partition, so rotating
// a secret effectively abandons the old tenant's rows.
func Resolve(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:16])
}
