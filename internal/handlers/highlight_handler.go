package handlers

import (
	"log/slog"
	"net/http"

	"github.com/anonto42/devhub/backend/internal/middleware"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/anonto42/devhub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// HighlightHandler handles daily highlight HTTP requests
type HighlightHandler struct {
	highlights *services.HighlightService
	users      repositories.UserRepository
}

// NewHighlightHandler creates a new HighlightHandler
func NewHighlightHandler(highlights *services.HighlightService, users repositories.UserRepository) *HighlightHandler {
	return &HighlightHandler{highlights: highlights, users: users}
}

// RegisterHighlightRoutes registers highlight routes
func (h *HighlightHandler) RegisterHighlightRoutes(g *echo.Group) {
	g.GET("/highlights", h.GetHighlights)
	g.POST("/highlights", h.CreateHighlight)
}

// HighlightResponse is a highlight with its author summary
type HighlightResponse struct {
	models.DailyHighlight
	Author models.UserCompact `json:"author"`
}

// GetHighlights returns the highlights posted today or yesterday
func (h *HighlightHandler) GetHighlights(c echo.Context) error {
	ctx := c.Request().Context()
	list, err := h.highlights.ListCurrent(ctx)
	if err != nil {
		return mapServiceError(c, err)
	}

	ids := make([]string, 0, len(list))
	for _, hl := range list {
		ids = append(ids, hl.AuthorID)
	}
	authors, err := h.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		slog.WarnContext(ctx, "highlight author lookup failed", slog.Any("error", err))
		authors = map[string]models.Profile{}
	}

	out := make([]HighlightResponse, len(list))
	for i, hl := range list {
		out[i] = HighlightResponse{DailyHighlight: hl, Author: models.UserCompact{ID: hl.AuthorID}}
		if a, ok := authors[hl.AuthorID]; ok {
			out[i].Author = a.ToCompact()
		}
	}
	return ok(c, http.StatusOK, echo.Map{"highlights": out})
}

// CreateHighlight posts today's highlight for the caller
func (h *HighlightHandler) CreateHighlight(c echo.Context) error {
	var req models.CreateHighlightRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	highlight, err := h.highlights.Post(c.Request().Context(), middleware.SessionFrom(c), req.Content)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusCreated, highlight)
}
