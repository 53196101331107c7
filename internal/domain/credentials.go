package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the hex encoded SHA-256 digest of password.
// Digests are unsalted so documents written by earlier deployments keep verifying.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword verifies password against a stored digest
func CheckPassword(password, digest string) bool {
	return HashPassword(password) == digest
}
