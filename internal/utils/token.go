package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenBytes is the entropy of magic-link and session credentials (256 bits).
const TokenBytes = 32

// GenerateToken returns size random bytes from crypto/rand, hex-encoded.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
