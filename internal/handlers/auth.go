package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/devhub/backend/internal/middleware"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
)

// AuthHandler exchanges Firebase ID tokens for local bearer tokens
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   middleware.TokenVerifier
	jwtSecret      string
	ttl            time.Duration
	clock          clockwork.Clock
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, verifier middleware.TokenVerifier, jwtSecret string, ttl time.Duration, clock clockwork.Clock) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   verifier,
		jwtSecret:      jwtSecret,
		ttl:            ttl,
		clock:          clock,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/firebase-login", h.FirebaseLogin)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token, creates the caller's profile on
// first sign-in and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return bindError()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return fail(http.StatusUnauthorized, CodeUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)

	user, err := h.userRepository.GetUserByID(ctx, token.UID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		// Usernames start as the uid; the user can change it later.
		user = &models.Profile{
			ID:          token.UID,
			Username:    token.UID,
			DisplayName: name,
			AvatarURL:   picture,
		}
		if err := h.userRepository.UpsertProfile(ctx, user); err != nil {
			return mapServiceError(c, err)
		}
	case err != nil:
		return mapServiceError(c, err)
	}

	localJWT, err := middleware.IssueToken(h.jwtSecret, token.UID, email, h.clock.Now(), h.ttl)
	if err != nil {
		return mapServiceError(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"token": localJWT, "user": user})
}
