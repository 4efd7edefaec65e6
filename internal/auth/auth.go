package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the hex-encoded sha256 digest of password.
// The digest format is shared with existing databases; changing it would
// invalidate every stored credential.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword reports whether password hashes to the stored digest.
func CheckPassword(password, digest string) bool {
	return HashPassword(password) == digest
}
