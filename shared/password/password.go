package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes is the longest secret bcrypt will accept. Request validation
// caps passwords at the same length.
const MaxBytes = 72

var (
	ErrEmpty    = errors.New("password is empty")
	ErrTooLong  = fmt.Errorf("password exceeds %d bytes", MaxBytes)
	ErrMismatch = errors.New("password does not match")
)

var cost = bcrypt.DefaultCost

// Hash returns the bcrypt digest stored in users.password.
func Hash(secret string) (string, error) {
	switch {
	case secret == "":
		return "", ErrEmpty
	case len(secret) > MaxBytes:
		return "", ErrTooLong
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// Verify reports ErrMismatch for a wrong or empty secret. A malformed digest
// is returned as a wrapped bcrypt error.
func Verify(secret, digest string) error {
	if secret == "" || digest == "" {
		return ErrMismatch
	}

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("failed to verify password: %w", err)
	}
}
