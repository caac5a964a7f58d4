package handler

import (
	"net/http"

	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type EngineResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newEngineResponse(engine models.Engine) EngineResponse {
	return EngineResponse{
		ID:   engine.ID,
		Name: engine.Name,
	}
}

// CreateEngine godoc
// @Summary      Create a new engine
// @Tags         engines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body NameInput true "Engine Info"
// @Success      201  {object}  EngineResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Engine already exists"
// @Router       /engines [post]
func (h *Handler) CreateEngine(c *gin.Context) {
	var input NameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	engine, err := h.catalog.CreateEngine(c.Request.Context(), input.Name)
	if err != nil {
		h.respondError(c, err, "create engine")
		return
	}

	response := newEngineResponse(*engine)
	h.recordWrite("engine", "create")
	h.publish(hub.TopicEngines, "engine.created", response)
	c.JSON(http.StatusCreated, response)
}

// ListEngines godoc
// @Summary      Get all engines
// @Tags         engines
// @Produce      json
// @Success      200  {array}   EngineResponse
// @Router       /engines [get]
func (h *Handler) ListEngines(c *gin.Context) {
	engines, err := h.catalog.ListEngines(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "list engines")
		return
	}

	response := make([]EngineResponse, 0, len(engines))
	for _, engine := range engines {
		response = append(response, newEngineResponse(engine))
	}
	c.JSON(http.StatusOK, response)
}
