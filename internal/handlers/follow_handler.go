package handlers

import (
	"net/http"

	"github.com/anonto42/devhub/backend/internal/middleware"
	"github.com/anonto42/devhub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/follow", h.GetFollowStatus)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	following, err := h.follows.Follow(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"following": following})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	following, err := h.follows.Unfollow(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"following": following})
}

// GetFollowStatus reports whether the caller follows the user. Guests never do.
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	following, err := h.follows.IsFollowing(c.Request().Context(), middleware.SessionFrom(c).PrincipalID, c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"following": following})
}

// GetFollowers returns the followers of a user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	page, limit := pageParams(c)
	users, err := h.follows.Followers(c.Request().Context(), c.Param("id"), page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"users": users})
}

// GetFollowing returns the users a user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	page, limit := pageParams(c)
	users, err := h.follows.Following(c.Request().Context(), c.Param("id"), page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"users": users})
}
