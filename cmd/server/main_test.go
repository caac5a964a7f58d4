package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"serve", "migrate", "seed"} {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
	for _, flag := range []string{"--database-url", "--jwt-secret", "--bcrypt-cost"} {
		assert.Contains(t, output, flag)
	}
}

func TestMigrate_RequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")

	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"migrate"})

	assert.Error(t, cmd.Execute())
}

func TestNewRouter(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:      "secret",
		AccessTokenTTL: config.DefaultAccessTokenTTL,
		BcryptCost:     bcrypt.MinCost,
		GinMode:        "test",
	}
	router, err := newRouter(cfg, dbtest.Open(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	tests := []struct {
		path string
		want int
	}{
		{"/ping", http.StatusOK},
		{"/games", http.StatusOK},
		{"/prometheus", http.StatusOK},
		{"/swagger/doc.json", http.StatusOK},
		{"/users/me", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestNewRouter_CORS(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:      "secret",
		AccessTokenTTL: config.DefaultAccessTokenTTL,
		BcryptCost:     bcrypt.MinCost,
		GinMode:        "test",
		CORSOrigins:    []string{config.DefaultCORSOrigin},
	}
	router, err := newRouter(cfg, dbtest.Open(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/games", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("allowed origin preflight", func(t *testing.T) {
		w := preflight(config.DefaultCORSOrigin)
		assert.Less(t, w.Code, 300)
		assert.Equal(t, config.DefaultCORSOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("other origin preflight", func(t *testing.T) {
		w := preflight("http://evil.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/games", nil)
		req.Header.Set("Origin", config.DefaultCORSOrigin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, config.DefaultCORSOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Total-Count")
	})
}

func TestNewRouter_RejectsBadCost(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", BcryptCost: bcrypt.MaxCost + 1, GinMode: "test"}

	_, err := newRouter(cfg, dbtest.Open(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
