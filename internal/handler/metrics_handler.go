package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CountsResponse struct {
	Games int64 `json:"games"`
}

type MostPopularGenreResponse struct {
	Genre     *GenreResponse `json:"genre"`
	GameCount int64          `json:"game_count"`
}

// GetCounts godoc
// @Summary      Catalog counts
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  CountsResponse
// @Router       /metrics/counts [get]
func (h *Handler) GetCounts(c *gin.Context) {
	count, err := h.catalog.CountGames(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "count games")
		return
	}
	c.JSON(http.StatusOK, CountsResponse{Games: count})
}

// GetMostPopularGenre godoc
// @Summary      Most popular genre
// @Description  The genre linked to the most games; ties go to the lowest id. genre is null when no game has a genre.
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  MostPopularGenreResponse
// @Router       /metrics/most_popular_genre [get]
func (h *Handler) GetMostPopularGenre(c *gin.Context) {
	popular, err := h.catalog.MostPopularGenre(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "most popular genre")
		return
	}

	response := MostPopularGenreResponse{GameCount: popular.GameCount}
	if popular.Genre != nil {
		genre := newGenreResponse(*popular.Genre)
		response.Genre = &genre
	}
	c.JSON(http.StatusOK, response)
}
