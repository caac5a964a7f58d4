// Package handler exposes the catalog and account operations over HTTP.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gamecatalog/backend/internal/apperr"
	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/observability"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints access tokens for an authenticated subject.
type TokenIssuer interface {
	Issue(subject string, now time.Time) (string, error)
}

// Deps are the collaborators a Handler needs. Hub and Metrics are optional.
type Deps struct {
	Catalog     *catalog.Store
	Credentials *auth.CredentialStore
	Tokens      TokenIssuer
	Hub         *hub.Hub
	Metrics     *observability.Metrics
	Logger      *slog.Logger
	Now         func() time.Time
}

// Handler serves the HTTP API.
type Handler struct {
	catalog     *catalog.Store
	credentials *auth.CredentialStore
	tokens      TokenIssuer
	hub         *hub.Hub
	metrics     *observability.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a Handler.
func New(d Deps) *Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		catalog:     d.Catalog,
		credentials: d.Credentials,
		tokens:      d.Tokens,
		hub:         d.Hub,
		metrics:     d.Metrics,
		logger:      d.Logger,
		now:         now,
	}
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// RegisterRoutes mounts every API route on r. Reads are public; writes and
// the current-user route go through the gate.
func (h *Handler) RegisterRoutes(r gin.IRouter, gate *auth.Gate) {
	requireUser := gate.Middleware(h.logger)

	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/users/me", requireUser, h.GetMe)

	r.GET("/genres", h.ListGenres)
	r.POST("/genres", requireUser, h.CreateGenre)

	r.GET("/engines", h.ListEngines)
	r.POST("/engines", requireUser, h.CreateEngine)

	games := r.Group("/games")
	{
		games.GET("", h.ListGames)
		games.GET("/:id", h.GetGame)
		games.POST("", requireUser, h.CreateGame)
		games.PUT("/:id", requireUser, h.UpdateGame)
		games.DELETE("/:id", requireUser, h.DeleteGame)
	}

	metrics := r.Group("/metrics")
	{
		metrics.GET("/counts", h.GetCounts)
		metrics.GET("/most_popular_genre", h.GetMostPopularGenre)
	}

	if h.hub != nil {
		r.GET("/events", h.StreamEvents)
	}
}

// respondError maps domain errors to status codes. Anything unrecognized is
// logged under action and reported as a 500 without detail.
func (h *Handler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		auth.AbortUnauthenticated(c)
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Game not found"})
	case errors.Is(err, apperr.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "One or more engine or genre ids are invalid"})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Name already exists"})
	case errors.Is(err, apperr.ErrDuplicateIdentity):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already registered"})
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		// max=72 counts runes; multi-byte passwords can still exceed bcrypt's byte limit.
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Password must be at most 72 bytes"})
	default:
		apperr.LogError(h.logger, action, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func (h *Handler) publish(topic, eventType string, payload any) {
	if h.hub == nil {
		return
	}
	h.hub.Broadcast(topic, hub.Event{Type: eventType, Payload: payload})
}

func (h *Handler) recordWrite(entity, op string) {
	if h.metrics != nil {
		h.metrics.RecordWrite(entity, op)
	}
}

func (h *Handler) recordAuth(kind, outcome string) {
	if h.metrics != nil {
		h.metrics.RecordAuth(kind, outcome)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}
