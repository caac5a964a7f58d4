package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"gamecatalog/backend/internal/apperr"
	"gamecatalog/backend/internal/models"

	"github.com/samber/oops"
)

// CredentialStore registers users and checks their passwords.
type CredentialStore struct {
	users  UserStore
	hasher PasswordHasher

	// dummyHash is verified against when the email is unknown, so that a
	// missing account costs the same hash computation as a wrong password.
	// It is a hash of random bytes and never matches a real password.
	dummyHash string
}

// NewCredentialStore creates a CredentialStore.
func NewCredentialStore(users UserStore, hasher PasswordHasher) (*CredentialStore, error) {
	if users == nil {
		return nil, oops.Errorf("user store is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}

	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}
	dummy, err := hasher.Hash(base64.RawStdEncoding.EncodeToString(seed))
	if err != nil {
		return nil, oops.Code("AUTH_DUMMY_HASH_FAILED").Wrap(err)
	}

	return &CredentialStore{users: users, hasher: hasher, dummyHash: dummy}, nil
}

// Register creates a new active user. The password is hashed before any
// storage write and is never kept in plaintext.
func (s *CredentialStore) Register(ctx context.Context, email, password string) (*models.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, oops.Code("DUPLICATE_IDENTITY").With("email", email).Wrap(apperr.ErrDuplicateIdentity)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Verify reports whether password is correct for email. An unknown email
// yields false after the same amount of hashing work as a wrong password.
func (s *CredentialStore) Verify(ctx context.Context, email, password string) (bool, error) {
	_, ok, err := s.check(ctx, email, password)
	return ok, err
}

// Authenticate returns the user for a correct email/password pair.
// Every failure, including an inactive account, is apperr.ErrUnauthenticated.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, ok, err := s.check(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !ok || !user.IsActive {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(apperr.ErrUnauthenticated)
	}
	return user, nil
}

// Lookup resolves an identity to its user, or apperr.ErrNotFound.
func (s *CredentialStore) Lookup(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s *CredentialStore) check(ctx context.Context, email, password string) (*models.User, bool, error) {
	user, err := s.users.FindByEmail(ctx, email)

	var targetHash string
	switch {
	case err == nil:
		targetHash = user.PasswordHash
	case errors.Is(err, apperr.ErrNotFound):
		targetHash = s.dummyHash
	default:
		return nil, false, err
	}

	// Always verify, so both branches above cost one hash comparison.
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if user == nil {
		return nil, false, nil
	}
	if verifyErr != nil {
		return nil, false, oops.Code("AUTH_VERIFY_FAILED").With("email", email).Wrap(verifyErr)
	}
	return user, valid, nil
}
