package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware resolves Firebase ID tokens into a session, using
// the Firebase UID as principal id. Requests without a token continue as
// guests.
func FirebaseAuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, ok, err := bearerToken(c)
			if err != nil {
				return err
			}
			if !ok {
				WithSession(c, models.Guest())
				return next(c)
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				slog.DebugContext(c.Request().Context(), "rejected firebase token", slog.Any("error", err))
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			WithSession(c, models.Session{PrincipalID: token.UID})
			c.Set("firebaseToken", token)
			return next(c)
		}
	}
}

// GuestOnlyMiddleware marks every request as a guest. It is used when no
// sign-in method is configured.
func GuestOnlyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			WithSession(c, models.Guest())
			return next(c)
		}
	}
}
