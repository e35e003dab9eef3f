package handlers

import (
	"net/http"

	"github.com/anonto42/devhub/backend/internal/middleware"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
}

// CreateComment creates a new comment on a post, or a reply when parent_id is set
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}

	comment, err := h.comments.AddComment(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusCreated, comment)
}

// GetCommentsByPostID lists a post's comments, oldest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	page, limit := pageParams(c)
	comments, err := h.comments.ListComments(c.Request().Context(), c.Param("id"), page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"comments": comments})
}
