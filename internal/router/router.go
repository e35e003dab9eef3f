package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/devhub/backend/internal/cache"
	"github.com/anonto42/devhub/backend/internal/events"
	"github.com/anonto42/devhub/backend/internal/handlers"
	"github.com/anonto42/devhub/backend/internal/middleware"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/anonto42/devhub/backend/internal/services"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Dependencies are the infrastructure handles the routes are built on.
// Notifications, HighlightCache and Publisher fall back to Postgres, no
// cache and no events when nil.
type Dependencies struct {
	Log            *slog.Logger
	Clock          clockwork.Clock
	Postgres       *gorm.DB
	Notifications  repositories.NotificationRepository
	HighlightCache cache.HighlightCache
	Publisher      events.Publisher
	Verifier       middleware.TokenVerifier
	JWTSecret      string
	JWTTTL         time.Duration
	Location       *time.Location
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	log := deps.Log
	if err := repositories.AutoMigrate(deps.Postgres); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("PostgreSQL auto-migrations completed for all models.")

	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Notifications == nil {
		deps.Notifications = repositories.NewPostgresNotificationRepository(deps.Postgres)
	}
	if deps.HighlightCache == nil {
		deps.HighlightCache = cache.NopHighlightCache{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(func(ctx context.Context) error {
		sqlDB, err := deps.Postgres.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}))

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	postRepo := repositories.NewPostgresPostRepository(deps.Postgres)
	interactionRepo := repositories.NewPostgresInteractionRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	highlightRepo := repositories.NewPostgresHighlightRepository(deps.Postgres)

	// --- Initialize Services ---
	notificationService := services.NewNotificationService(log, deps.Clock, deps.Location, deps.Notifications, userRepo, deps.Publisher)
	interactionService := services.NewInteractionService(log, deps.Clock, interactionRepo, notificationService, deps.Publisher)
	followService := services.NewFollowService(interactionService, interactionRepo)
	commentService := services.NewCommentService(log, deps.Clock, commentRepo, notificationService, deps.Publisher)
	highlightService := services.NewHighlightService(log, deps.Clock, deps.Location, highlightRepo, deps.HighlightCache, deps.Publisher)

	// --- Unprotected routes for authentication ---
	if deps.Verifier != nil && deps.JWTSecret != "" {
		authGroup := e.Group("/api/v1/auth")
		handlers.NewAuthHandler(userRepo, deps.Verifier, deps.JWTSecret, deps.JWTTTL, deps.Clock).RegisterAuthRoutes(authGroup)
		log.Info("Auth routes configured.")
	}

	// --- Session-resolving routes; guests are allowed through ---
	api := e.Group("/api/v1")
	api.Use(sessionMiddleware(deps, log))

	handlers.NewUserHandler(userRepo).RegisterProfileRoutes(api)
	handlers.NewPostHandler(postRepo).RegisterPostRoutes(api)
	handlers.NewInteractionHandler(interactionService).RegisterInteractionRoutes(api)
	handlers.NewFollowHandler(followService).RegisterFollowRoutes(api)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api)
	handlers.NewHighlightHandler(highlightService, userRepo).RegisterHighlightRoutes(api)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)

	log.Info("All routes configured.")
	return nil
}

func sessionMiddleware(deps Dependencies, log *slog.Logger) echo.MiddlewareFunc {
	switch {
	case deps.JWTSecret != "":
		log.Info("JWT authentication middleware applied to /api/v1 group.")
		return middleware.JWTAuthMiddleware(deps.JWTSecret)
	case deps.Verifier != nil:
		log.Info("Firebase authentication middleware applied to /api/v1 group.")
		return middleware.FirebaseAuthMiddleware(deps.Verifier)
	default:
		log.Warn("No sign-in method configured; every request is a guest.")
		return middleware.GuestOnlyMiddleware()
	}
}
