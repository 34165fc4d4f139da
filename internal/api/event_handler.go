package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"teeup-backend-go/internal/events"
)

// SourceHTTP labels changes posted to the ingest endpoint.
const SourceHTTP = "http"

// EventHandler accepts change records pushed over HTTP.
type EventHandler struct {
	router *events.Router
	logger *zap.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(router *events.Router, logger *zap.Logger) *EventHandler {
	return &EventHandler{router: router, logger: logger}
}

// Ingest handles POST /internal/events. The change is handled before the response is written.
func (h *EventHandler) Ingest(c *gin.Context) {
	var change events.Change
	if err := c.ShouldBindJSON(&change); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid change record", Details: err.Error()})
		return
	}
	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	if change.Source == "" {
		change.Source = SourceHTTP
	}

	kind, _, routed := h.router.Route(change)
	err := h.router.Dispatch(c.Request.Context(), change)
	switch {
	case errors.Is(err, events.ErrNoRoute):
		c.JSON(http.StatusAccepted, EventAcceptedResponse{ID: change.ID, Routed: false})
	case err != nil:
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Change could not be handled", Details: err.Error()})
	default:
		c.JSON(http.StatusAccepted, EventAcceptedResponse{ID: change.ID, Kind: string(kind), Routed: routed})
	}
}
