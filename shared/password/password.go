package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	Cost = bcrypt.DefaultCost

	MinLength = 8
	// bcrypt ignores input past 72 bytes
	MaxLength = 72
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrTooShort        = fmt.Errorf("password must be at least %d characters", MinLength)
	ErrTooLong         = fmt.Errorf("password must be at most %d bytes", MaxLength)
)

// Hash enforces the length policy and returns a bcrypt hash.
func Hash(password string) (string, error) {
	if err := Check(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

func Check(password string) error {
	switch {
	case len([]rune(password)) < MinLength:
		return ErrTooShort
	case len(password) > MaxLength:
		return ErrTooLong
	}

	return nil
}

// Verify returns ErrInvalidPassword on any mismatch, including empty input.
func Verify(password, hash string) error {
	if password == "" || hash == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidPassword
	}

	return fmt.Errorf("failed to verify password: %w", err)
}

// NeedsRehash reports hashes produced with a cost below the current one,
// e.g. rows seeded by an older release.
func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}

	return cost < Cost
}
