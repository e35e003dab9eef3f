package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const sessionKey = "session"

// SessionFrom returns the caller's session. Requests without credentials
// carry a guest session.
func SessionFrom(c echo.Context) models.Session {
	if s, ok := c.Get(sessionKey).(models.Session); ok {
		return s
	}
	return models.Guest()
}

// WithSession stores s on the request context.
func WithSession(c echo.Context, s models.Session) {
	c.Set(sessionKey, s)
}

// bearerToken extracts the token from the Authorization header. ok is false
// when the header is absent; a malformed header is an error.
func bearerToken(c echo.Context) (token string, ok bool, err error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", false, nil
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false, echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
	}
	return parts[1], true, nil
}
