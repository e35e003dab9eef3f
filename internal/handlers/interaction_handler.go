package handlers

import (
	"net/http"

	"github.com/anonto42/devhub/backend/internal/middleware"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// InteractionHandler handles like, bookmark, star and follow toggles. Follow
// is also served under /users/:id/follow by FollowHandler.
type InteractionHandler struct {
	interactions *services.InteractionService
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(interactions *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

// RegisterInteractionRoutes registers interaction-related routes
func (h *InteractionHandler) RegisterInteractionRoutes(g *echo.Group) {
	g.POST("/interactions/:kind/:target_id/toggle", h.Toggle)
	g.GET("/interactions/:kind/:target_id", h.Status)
	g.GET("/posts/:id/engagement", h.Engagement)
}

// Toggle flips the caller's interaction with a target. The body carries the
// state the client displayed before the toggle.
func (h *InteractionHandler) Toggle(c echo.Context) error {
	kind, err := models.ParseInteractionKind(c.Param("kind"))
	if err != nil {
		return mapServiceError(c, err)
	}

	var req models.ToggleInteractionRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	result, err := h.interactions.Toggle(c.Request().Context(), middleware.SessionFrom(c), kind, c.Param("target_id"), req.Observed)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, result)
}

// Status returns the caller's state and the target's counters
func (h *InteractionHandler) Status(c echo.Context) error {
	kind, err := models.ParseInteractionKind(c.Param("kind"))
	if err != nil {
		return mapServiceError(c, err)
	}

	result, err := h.interactions.Status(c.Request().Context(), middleware.SessionFrom(c), kind, c.Param("target_id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, result)
}

// Engagement returns a post's counters and engagement score
func (h *InteractionHandler) Engagement(c echo.Context) error {
	engagement, err := h.interactions.Engagement(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, engagement)
}
