// Package apperr defines the error taxonomy shared by the catalog and auth layers.
//
// Callers match with errors.Is; domain code wraps these sentinels with
// oops so the code and context survive up to the logging layer.
package apperr

import (
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

var (
	// ErrDuplicateIdentity is returned when registering an email that already exists.
	ErrDuplicateIdentity = errors.New("identity already registered")

	// ErrUnauthenticated covers every token and credential failure.
	// The underlying reason is never part of the response contract.
	ErrUnauthenticated = errors.New("could not validate credentials")

	// ErrNotFound is returned when an entity id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference is returned when a write names foreign ids that do not exist.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrConflict is returned when a unique name is already taken.
	ErrConflict = errors.New("already exists")
)

// LogError logs an error with structured context if it's an oops error.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
		return
	}
	logger.Error(msg, "error", err)
}
