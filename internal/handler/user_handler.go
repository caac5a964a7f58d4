package handler

import (
	"errors"
	"net/http"

	"gamecatalog/backend/internal/apperr"
	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/models"
	"gamecatalog/backend/internal/observability"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,max=72" example:"password123"`
}

// LoginInput accepts either an OAuth2 password form (username, password) or JSON (email, password).
type LoginInput struct {
	Email    string `json:"email" form:"username" binding:"required" example:"test@example.com"`
	Password string `json:"password" form:"password" binding:"required" example:"password123"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// UserResponse defines the structure for a user's account.
type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Email    string `json:"email" example:"test@example.com"`
	IsActive bool   `json:"is_active" example:"true"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		IsActive: user.IsActive,
	}
}

// endregion

// region --- Auth Handlers ---

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new active user.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse "Invalid input or password longer than 72 bytes"
// @Failure      409  {object}  ErrorResponse "Email already registered"
// @Failure      500  {object}  ErrorResponse
// @Router       /register [post]
func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.credentials.Register(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.respondError(c, err, "register user")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, newUserResponse(user))
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges an email and password for a bearer access token.
// @Tags         auth
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        username formData string true "Email"
// @Param        password formData string true "Password"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Incorrect email or password"
// @Router       /login [post]
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.credentials.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			h.recordAuth("login", observability.OutcomeRejected)
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Incorrect email or password"})
			return
		}
		h.recordAuth("login", observability.OutcomeError)
		h.respondError(c, err, "authenticate user")
		return
	}

	token, err := h.tokens.Issue(user.Email, h.now())
	if err != nil {
		h.recordAuth("login", observability.OutcomeError)
		h.respondError(c, err, "issue access token")
		return
	}

	h.recordAuth("login", observability.OutcomeSuccess)
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// GetMe godoc
// @Summary      Get current user
// @Description  Returns the account the bearer token belongs to.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		auth.AbortUnauthenticated(c)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// endregion
