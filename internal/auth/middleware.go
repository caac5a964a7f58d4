package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gamecatalog/backend/internal/apperr"
	"gamecatalog/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey is the gin context key holding the authenticated *models.User.
const CurrentUserKey = "currentUser"

// Middleware creates a gin middleware that requires a valid bearer token.
// Every failure produces the same 401 response.
func (g *Gate) Middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			AbortUnauthenticated(c)
			return
		}

		user, err := g.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthenticated) {
				logger.DebugContext(c.Request.Context(), "rejected bearer token", "error", err)
				AbortUnauthenticated(c)
				return
			}
			apperr.LogError(logger, "resolve bearer token", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by Middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// AbortUnauthenticated writes the single response used for every authentication failure.
func AbortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
