package auth

import (
	"crypto/sha512"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewSessionID returns a random (v4) UUID used as the refresh token subject.
func NewSessionID() string {
	return uuid.NewString()
}

// HashToken returns the hex encoded SHA-512 digest of a signed token.
func HashToken(token string) string {
	sum := sha512.Sum512([]byte(token))
	return hex.EncodeToString(sum[:])
}
