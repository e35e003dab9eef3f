package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/devhub/backend/internal/middleware"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests for posts and projects, the targets of
// likes, bookmarks and stars
type PostHandler struct {
	postRepository repositories.PostRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{postRepository: postRepo}
}

// RegisterPostRoutes registers post and project routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/projects", h.CreateProject)
	g.GET("/projects/:id", h.GetProject)
}

// CreatePost creates a new post authored by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session.IsGuest() {
		return mapServiceError(c, models.ErrUnauthorized)
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := c.Validate(&req); err != nil {
		return err
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:        uuid.NewString(),
		AuthorID:  session.PrincipalID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusCreated, post)
}

// GetPost retrieves a single post with its counters
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, post)
}

// CreateProject creates a new project owned by the caller
func (h *PostHandler) CreateProject(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session.IsGuest() {
		return mapServiceError(c, models.ErrUnauthorized)
	}

	var req models.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}

	now := time.Now().UTC()
	project := &models.Project{
		ID:        uuid.NewString(),
		OwnerID:   session.PrincipalID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.postRepository.CreateProject(c.Request().Context(), project); err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusCreated, project)
}

// GetProject retrieves a single project with its star count
func (h *PostHandler) GetProject(c echo.Context) error {
	project, err := h.postRepository.GetProjectByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, project)
}
