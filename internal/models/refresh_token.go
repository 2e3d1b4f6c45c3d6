package models

import "time"

// RefreshToken is the stored half of an opaque refresh secret.
// Only the SHA-256 digest of the secret is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
