package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the access token lifetime used when none is configured.
const DefaultTTL = 30 * time.Minute

// Validation failures. They are kept apart for diagnostics only;
// callers outside the auth layer must treat them all as "unauthenticated".
var (
	ErrMalformed = errors.New("token malformed")
	ErrExpired   = errors.New("token expired")
)

// Issuer mints and verifies HS256 access tokens with a fixed secret.
// It holds no mutable state and is safe for concurrent use.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer. A non-positive ttl falls back to DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the lifetime given to issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a signed token for subject that expires at now + TTL.
func (i *Issuer) Issue(subject string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(i.secret)
}

// Validate verifies the signature and expiry of tokenString as seen at now,
// and returns the subject it was issued for.
func (i *Issuer) Validate(tokenString string, now time.Time) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		// Signature is checked before claims, so an expired error implies a genuine token.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrMalformed
	}

	if claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}
