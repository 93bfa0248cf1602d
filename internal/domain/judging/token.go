package judging

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const tokenBytes = 32

// Token is the plaintext offer capability. It is only ever sent in the
// offer link.
type Token string

// NewToken draws a fresh random token
func NewToken() (Token, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate offer token: %w", err)
	}
	return Token(base64.RawURLEncoding.EncodeToString(b)), nil
}

// Hash is the stored form of the token
func (t Token) Hash() string {
	return HashToken(string(t))
}

// HashToken hashes a presented token for lookup
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
