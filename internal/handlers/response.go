package handlers

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// Error codes returned in the "error" field of failed responses.
const (
	CodeUnauthorized       = "unauthorized"
	CodeValidation         = "validation_error"
	CodeAlreadyPostedToday = "already_posted_today"
	CodeConflict           = "conflict"
	CodeNotFound           = "not_found"
	CodeInvalidOperation   = "invalid_operation"
	CodeTransient          = "transient_failure"
	CodeInternal           = "internal_error"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  []models.FieldError `json:"fields,omitempty"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func fail(status int, code, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, ErrorBody{Error: code, Message: message})
}

// mapServiceError turns a service error into the HTTP error the client
// sees. Unknown errors are logged and hidden behind a 500.
func mapServiceError(c echo.Context, err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, ErrorBody{
			Error:   CodeValidation,
			Message: verr.Error(),
			Fields:  verr.Errors,
		})
	case errors.Is(err, models.ErrUnauthorized):
		return fail(http.StatusUnauthorized, CodeUnauthorized, "Sign in required")
	case errors.Is(err, models.ErrAlreadyPostedToday):
		return fail(http.StatusConflict, CodeAlreadyPostedToday, "You already posted a highlight today")
	case errors.Is(err, models.ErrConflict):
		return fail(http.StatusConflict, CodeConflict, "Resource already exists")
	case errors.Is(err, models.ErrNotFound):
		return fail(http.StatusNotFound, CodeNotFound, "Resource not found")
	case errors.Is(err, models.ErrInvalidOperation):
		return fail(http.StatusUnprocessableEntity, CodeInvalidOperation, "Operation not allowed")
	case errors.Is(err, models.ErrTransient), errors.Is(err, context.DeadlineExceeded):
		return fail(http.StatusServiceUnavailable, CodeTransient, "Temporarily unavailable, try again")
	}

	slog.ErrorContext(c.Request().Context(), "unhandled error",
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return fail(http.StatusInternalServerError, CodeInternal, "Internal server error")
}

func bindError() error {
	return fail(http.StatusBadRequest, CodeValidation, "Invalid request payload")
}

// pageParams reads ?page and ?limit; the services clamp them.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

func pageMeta(page, limit int, total int64) echo.Map {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      total,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}
