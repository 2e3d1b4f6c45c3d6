package models

import (
	"time"
)

// CodeType is the purpose a one-time code was issued for
type CodeType string

const (
	CodeTypeEmailVerify   CodeType = "EMAIL_VERIFY"
	CodeTypeLoginOTP      CodeType = "LOGIN_OTP"
	CodeTypePasswordReset CodeType = "PASSWORD_RESET"
)

// VerificationCode is a short-lived, single-use numeric credential
type VerificationCode struct {
	ID        string
	Email     string
	Code      string
	Type      CodeType
	UserID    *string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsExpired checks if the code has expired at now
func (c *VerificationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IsUsed checks if the code has already been consumed
func (c *VerificationCode) IsUsed() bool {
	return c.UsedAt != nil
}
