package handlers

import (
	"net/http"

	"github.com/anonto42/devhub/backend/internal/middleware"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to profiles
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)    // Get own profile
	g.PUT("/profile", h.UpdateProfile) // Create or update own profile
	g.GET("/users/:id", h.GetUser)     // Get other user's profile by ID
}

// GetUser retrieves a profile by id
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, user)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session.IsGuest() {
		return mapServiceError(c, models.ErrUnauthorized)
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), session.PrincipalID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, user)
}

// UpdateProfile creates or updates the authenticated user's profile. Follow
// counters are not writable here.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session.IsGuest() {
		return mapServiceError(c, models.ErrUnauthorized)
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	profile := &models.Profile{
		ID:          session.PrincipalID,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	}
	if err := h.userRepository.UpsertProfile(ctx, profile); err != nil {
		return mapServiceError(c, err)
	}

	user, err := h.userRepository.GetUserByID(ctx, session.PrincipalID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, user)
}
