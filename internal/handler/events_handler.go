package handler

import (
	"net/http"
	"slices"
	"strings"

	"gamecatalog/backend/internal/hub"

	"github.com/gin-gonic/gin"
)

// StreamEvents godoc
// @Summary      Stream catalog changes
// @Description  Server-sent events for catalog writes. topics is a comma-separated subset of games, genres, engines; all by default.
// @Tags         events
// @Produce      text/event-stream
// @Param        topics  query  string  false  "Topics to follow"
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Router       /events [get]
func (h *Handler) StreamEvents(c *gin.Context) {
	topics := hub.AllTopics
	if raw := c.Query("topics"); raw != "" {
		topics = strings.Split(raw, ",")
		for _, topic := range topics {
			if !slices.Contains(hub.AllTopics, topic) {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown topic " + topic})
				return
			}
		}
	}

	client := hub.NewClient()
	h.hub.Subscribe(client, topics...)
	defer h.hub.Unsubscribe(client)

	// Set before the first flush; SSEvent renders the same value.
	c.Header("Content-Type", "text/event-stream;charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case message, ok := <-client:
			if !ok {
				return
			}
			c.SSEvent("catalog", string(message))
			c.Writer.Flush()
		}
	}
}
