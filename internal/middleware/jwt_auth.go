package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTAuthMiddleware resolves HS256 bearer tokens into a session. Requests
// without a token continue as guests; services decide what guests may do.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok, err := bearerToken(c)
			if err != nil {
				return err
			}
			if !ok {
				WithSession(c, models.Guest())
				return next(c)
			}

			claims, err := ParseToken(secret, tokenString)
			if err != nil {
				slog.DebugContext(c.Request().Context(), "rejected bearer token", slog.Any("error", err))
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			WithSession(c, models.Session{PrincipalID: claims.UserID})
			c.Set("user", claims)
			return next(c)
		}
	}
}

// ParseToken verifies tokenString and returns its claims.
func ParseToken(secret, tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// IssueToken signs a token for userID valid for ttl from now.
func IssueToken(secret, userID, email string, now time.Time, ttl time.Duration) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
