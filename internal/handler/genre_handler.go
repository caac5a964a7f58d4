package handler

import (
	"net/http"

	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// NameInput is the body for creating a genre or an engine.
type NameInput struct {
	Name string `json:"name" binding:"required" example:"Metroidvania"`
}

type GenreResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newGenreResponse(genre models.Genre) GenreResponse {
	return GenreResponse{
		ID:   genre.ID,
		Name: genre.Name,
	}
}

// CreateGenre godoc
// @Summary      Create a new genre
// @Tags         genres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body NameInput true "Genre Info"
// @Success      201  {object}  GenreResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Genre already exists"
// @Router       /genres [post]
func (h *Handler) CreateGenre(c *gin.Context) {
	var input NameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	genre, err := h.catalog.CreateGenre(c.Request.Context(), input.Name)
	if err != nil {
		h.respondError(c, err, "create genre")
		return
	}

	response := newGenreResponse(*genre)
	h.recordWrite("genre", "create")
	h.publish(hub.TopicGenres, "genre.created", response)
	c.JSON(http.StatusCreated, response)
}

// ListGenres godoc
// @Summary      Get all genres
// @Tags         genres
// @Produce      json
// @Success      200  {array}   GenreResponse
// @Router       /genres [get]
func (h *Handler) ListGenres(c *gin.Context) {
	genres, err := h.catalog.ListGenres(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "list genres")
		return
	}

	response := make([]GenreResponse, 0, len(genres))
	for _, genre := range genres {
		response = append(response, newGenreResponse(genre))
	}
	c.JSON(http.StatusOK, response)
}
