package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(t *testing.T, now time.Time) (*gin.Engine, *jwt.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, _ := newCredentialStore(t)
	_, err := store.Register(context.Background(), "a@x.com", "pw123")
	require.NoError(t, err)

	issuer := jwt.NewIssuer("secret", 30*time.Minute)
	gate := auth.NewGate(issuer, store).WithClock(func() time.Time { return now })

	router := gin.New()
	router.GET("/me", gate.Middleware(slog.New(slog.NewTextHandler(io.Discard, nil))), func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return router, issuer
}

func doGet(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddleware_AcceptsValidToken(t *testing.T) {
	router, issuer := newProtectedRouter(t, gateNow)
	token, err := issuer.Issue("a@x.com", gateNow)
	require.NoError(t, err)

	w := doGet(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@x.com"}`, w.Body.String())

	w = doGet(router, "bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_FailuresLookIdentical(t *testing.T) {
	router, issuer := newProtectedRouter(t, gateNow)

	expired, err := issuer.Issue("a@x.com", gateNow.Add(-time.Hour))
	require.NoError(t, err)
	unknown, err := issuer.Issue("gone@x.com", gateNow)
	require.NoError(t, err)

	headers := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Basic abc",
		"malformed token": "Bearer not-a-token",
		"expired token":   "Bearer " + expired,
		"unknown subject": "Bearer " + unknown,
	}

	var bodies []string
	for name, header := range headers {
		w := doGet(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"), name)
		bodies = append(bodies, w.Body.String())
	}
	for _, body := range bodies {
		assert.Equal(t, bodies[0], body)
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := auth.BearerToken("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "Bearer", "Token abc", "Bearer a b"} {
		_, ok := auth.BearerToken(header)
		assert.False(t, ok, header)
	}
}
