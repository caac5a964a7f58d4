package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamecatalog/backend/internal/apperr"
	"gamecatalog/backend/internal/models"

	"github.com/samber/oops"
)

// Internal reasons behind an unauthenticated request. They are logged, never returned to clients.
var (
	ErrUnknownSubject = errors.New("token subject not found")
	ErrInactiveUser   = errors.New("user is inactive")
)

// TokenValidator verifies a bearer token and returns its subject.
type TokenValidator interface {
	Validate(token string, now time.Time) (string, error)
}

// UserLookup resolves a token subject to its current user record.
type UserLookup interface {
	Lookup(ctx context.Context, email string) (*models.User, error)
}

// Gate resolves the caller of a request from its bearer token.
type Gate struct {
	tokens TokenValidator
	users  UserLookup
	now    func() time.Time
}

// NewGate creates a Gate that reads the wall clock.
func NewGate(tokens TokenValidator, users UserLookup) *Gate {
	return &Gate{tokens: tokens, users: users, now: time.Now}
}

// WithClock returns a copy of the gate that reads time from now.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	clone := *g
	clone.now = now
	return &clone
}

// Authenticate validates token and re-resolves its subject on every call, so
// an account that disappeared or was deactivated after issuance is rejected.
func (g *Gate) Authenticate(ctx context.Context, token string) (*models.User, error) {
	subject, err := g.tokens.Validate(token, g.now())
	if err != nil {
		return nil, unauthenticated(err)
	}

	user, err := g.users.Lookup(ctx, subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, unauthenticated(ErrUnknownSubject)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, unauthenticated(ErrInactiveUser)
	}
	return user, nil
}

func unauthenticated(reason error) error {
	return oops.Code("UNAUTHENTICATED").
		With("reason", reason.Error()).
		Wrap(fmt.Errorf("%w: %w", apperr.ErrUnauthenticated, reason))
}
