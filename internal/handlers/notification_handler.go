package handlers

import (
	"net/http"

	"github.com/anonto42/devhub/backend/internal/middleware"
	"github.com/anonto42/devhub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns paginated notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	session := middleware.SessionFrom(c)
	page, limit := pageParams(c)

	result, err := h.notifications.List(c.Request().Context(), session, session.PrincipalID, page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": result.Notifications,
		},
		"meta": pageMeta(result.Page, result.Limit, result.Total),
	})
}

// GetGroupedNotifications returns notifications grouped by time period
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	session := middleware.SessionFrom(c)

	groups, err := h.notifications.Grouped(ctx, session)
	if err != nil {
		return mapServiceError(c, err)
	}
	unreadCount, err := h.notifications.UnreadCount(ctx, session)
	if err != nil {
		return mapServiceError(c, err)
	}

	return ok(c, http.StatusOK, echo.Map{
		"notifications": groups,
		"unreadCount":   unreadCount,
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifications.UnreadCount(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	if err := h.notifications.MarkRead(c.Request().Context(), middleware.SessionFrom(c), c.Param("id")); err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notifications.MarkAllRead(c.Request().Context(), middleware.SessionFrom(c)); err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"success": true})
}
