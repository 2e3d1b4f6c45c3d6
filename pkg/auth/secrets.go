package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	CodeLength          = 6
	RefreshSecretLength = 40 // bytes of entropy before hex encoding

	minCode = 100000
	maxCode = 999999
)

// GenerateOneTimeCode returns a 6-digit code drawn uniformly from [100000, 999999]
// using crypto/rand
func GenerateOneTimeCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate one-time code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+minCode), nil
}

// GenerateRefreshSecret returns a hex encoded opaque refresh token secret
func GenerateRefreshSecret() (string, error) {
	bytes := make([]byte, RefreshSecretLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate refresh secret: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// HashForStorage returns the hex SHA-256 digest stored in place of a secret
func HashForStorage(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
