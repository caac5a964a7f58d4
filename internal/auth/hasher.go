// Package auth implements credential storage, password verification and the
// access gate that resolves a bearer token to an active user.
package auth

import (
	"errors"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher provides one-way password hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted hash of the password.
	Hash(password string) (string, error)

	// Verify checks if the password matches the hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or error on invalid hash.
	Verify(password, hash string) (bool, error)
}

// BcryptHasher implements PasswordHasher using bcrypt with a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher. The cost must be within bcrypt's bounds.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, oops.Code("AUTH_INVALID_COST").
			With("cost", cost).
			Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash produces a bcrypt hash of the password. bcrypt embeds its own random salt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", oops.Code("AUTH_HASH_FAILED").Wrap(err)
	}
	return string(hashed), nil
}

// Verify compares password against hash in constant time.
func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
}
