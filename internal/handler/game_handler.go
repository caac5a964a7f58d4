package handler

import (
	"net/http"
	"strconv"

	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// GameInput is the full state of a game. Updates replace every field,
// including the genre set.
type GameInput struct {
	Name        string `json:"name" binding:"required" example:"Hollow Knight"`
	ReleaseYear *int   `json:"release_year" binding:"required" example:"2017"` // any integer, 0 included
	EngineID    *uint  `json:"engine_id" example:"2"`
	GenreIDs    []uint `json:"genre_ids"` // IDs of the genres to associate with the game
}

func (in GameInput) toCatalog() catalog.GameInput {
	return catalog.GameInput{
		Name:        in.Name,
		ReleaseYear: *in.ReleaseYear,
		EngineID:    in.EngineID,
		GenreIDs:    in.GenreIDs,
	}
}

type GameResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	ReleaseYear int             `json:"release_year"`
	Engine      *EngineResponse `json:"engine"`
	Genres      []GenreResponse `json:"genres"`
}

func newGameResponse(game models.Game) GameResponse {
	genres := make([]GenreResponse, 0, len(game.Genres))
	for _, genre := range game.Genres {
		if genre != nil {
			genres = append(genres, newGenreResponse(*genre))
		}
	}

	var engine *EngineResponse
	if game.Engine != nil {
		e := newEngineResponse(*game.Engine)
		engine = &e
	}

	return GameResponse{
		ID:          game.ID,
		Name:        game.Name,
		ReleaseYear: game.ReleaseYear,
		Engine:      engine,
		Genres:      genres,
	}
}

// endregion

// region --- Write Handlers ---

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a game and links it to the given genres. Nothing is written if any id is unknown.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse "Invalid engine or genre id"
// @Failure      401  {object}  ErrorResponse
// @Router       /games [post]
func (h *Handler) CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.catalog.CreateGame(c.Request.Context(), input.toCatalog())
	if err != nil {
		h.respondError(c, err, "create game")
		return
	}

	response := newGameResponse(*game)
	h.recordWrite("game", "create")
	h.publish(hub.TopicGames, "game.created", response)
	c.JSON(http.StatusCreated, response)
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Replaces a game's details, engine and genre set.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int       true  "Game ID"
// @Param        input body      GameInput true  "New Game Info"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [put]
func (h *Handler) UpdateGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.catalog.UpdateGame(c.Request.Context(), id, input.toCatalog())
	if err != nil {
		h.respondError(c, err, "update game")
		return
	}

	response := newGameResponse(*game)
	h.recordWrite("game", "update")
	h.publish(hub.TopicGames, "game.updated", response)
	c.JSON(http.StatusOK, response)
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Deletes a game and its genre links.
// @Tags         games
// @Security     BearerAuth
// @Param        id   path      int  true  "Game ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [delete]
func (h *Handler) DeleteGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteGame(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "delete game")
		return
	}

	h.recordWrite("game", "delete")
	h.publish(hub.TopicGames, "game.deleted", gin.H{"id": id})
	c.Status(http.StatusNoContent)
}

// endregion

// region --- Read Handlers ---

// ListGames godoc
// @Summary      Get games
// @Description  Lists games ordered by id. Filters and pagination are optional; without page/limit every match is returned.
// @Tags         games
// @Produce      json
// @Param        q         query     string  false  "Case-insensitive name substring"
// @Param        genre_id  query     int     false  "Only games linked to this genre"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size"
// @Success      200  {array}   GameResponse
// @Header       200  {integer}  X-Total-Count  "Matches before pagination"
// @Failure      400  {object}  ErrorResponse
// @Router       /games [get]
func (h *Handler) ListGames(c *gin.Context) {
	page, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	filter := catalog.GameFilter{
		Query:  c.Query("q"),
		Offset: page.Offset(),
		Limit:  page.Limit,
	}
	if raw := c.Query("genre_id"); raw != "" {
		genreID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid genre_id"})
			return
		}
		filter.GenreID = uint(genreID)
	}

	games, total, err := h.catalog.ListGames(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "list games")
		return
	}

	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}

	c.Header(TotalCountHeader, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, response)
}

// GetGame godoc
// @Summary      Get game by ID
// @Tags         games
// @Produce      json
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *Handler) GetGame(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	game, err := h.catalog.GetGame(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "get game")
		return
	}

	c.JSON(http.StatusOK, newGameResponse(*game))
}

// endregion
