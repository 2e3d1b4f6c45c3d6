package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost     = 12
	MinPasswordLen = 8
	MaxPasswordLen = 72 // bcrypt ignores input past 72 bytes
)

var errEmptyPassword = errors.New("password cannot be empty")

// PasswordValidationError lists every rule a password failed
type PasswordValidationError struct {
	Errors []string
}

func (e *PasswordValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "password validation failed"
	}
	return "password " + strings.Join(e.Errors, ", ")
}

// characterClasses are the classes an account password must mix
var characterClasses = []struct {
	in      func(rune) bool
	message string
}{
	{unicode.IsUpper, "must contain at least one uppercase letter"},
	{unicode.IsLower, "must contain at least one lowercase letter"},
	{unicode.IsDigit, "must contain at least one digit"},
}

// ValidatePassword checks the account password rules: 8 to 72 bytes mixing
// upper case, lower case and digits. Every failed rule is reported.
func ValidatePassword(password string) error {
	var failed []string

	switch {
	case len(password) < MinPasswordLen:
		failed = append(failed, fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	case len(password) > MaxPasswordLen:
		failed = append(failed, fmt.Sprintf("must be at most %d bytes", MaxPasswordLen))
	}

	for _, class := range characterClasses {
		if strings.IndexFunc(password, class.in) < 0 {
			failed = append(failed, class.message)
		}
	}

	if len(failed) > 0 {
		return &PasswordValidationError{Errors: failed}
	}
	return nil
}

// HashPassword derives the stored bcrypt hash of an account password
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword checks password against a bcrypt hash in constant time
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
