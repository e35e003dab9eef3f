package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/devhub/backend/internal/cache"
	"github.com/anonto42/devhub/backend/internal/events"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/anonto42/devhub/backend/internal/router"
	"github.com/anonto42/devhub/backend/pkg/config"
	"github.com/anonto42/devhub/backend/pkg/firebase"
	"github.com/anonto42/devhub/backend/validators"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	log := config.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize databases", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	loc, err := cfg.Location()
	if err != nil {
		log.Error("Invalid highlight timezone", slog.Any("error", err))
		os.Exit(1)
	}

	deps := router.Dependencies{
		Log:       log,
		Clock:     clockwork.NewRealClock(),
		Postgres:  db.Postgres,
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
		Location:  loc,
	}

	if cfg.NotificationBackend == config.BackendMongo {
		inbox := repositories.NewMongoNotificationRepository(db.Mongo.Database(cfg.MongoDatabase))
		if err := inbox.EnsureIndexes(ctx); err != nil {
			log.Error("Failed to create notification indexes", slog.Any("error", err))
			os.Exit(1)
		}
		deps.Notifications = inbox
		log.Info("Notifications stored in MongoDB", slog.String("database", cfg.MongoDatabase))
	}

	// Initialize Firebase
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case errors.Is(err, firebase.ErrNoCredentials):
		log.Warn("Firebase sign-in disabled")
	case err != nil:
		log.Error("Failed to initialize Firebase", slog.Any("error", err))
		os.Exit(1)
	default:
		deps.Verifier = firebaseApp.AuthClient
	}

	if cfg.NATSURL != "" {
		publisher, err := events.Connect(cfg.NATSURL)
		if err != nil {
			log.Error("Failed to connect to NATS", slog.Any("error", err))
			os.Exit(1)
		}
		defer publisher.Close()
		deps.Publisher = publisher
	}

	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("Failed to connect to Redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer client.Close()
		deps.HighlightCache = cache.NewRedisHighlightCache(client, cfg.HighlightCacheTTL)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, log)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, deps); err != nil {
		log.Error("Failed to set up routes", slog.Any("error", err))
		os.Exit(1)
	}

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped", slog.Any("error", err))
			stop()
		}
	}()
	log.Info("Server started", slog.String("port", cfg.Port), slog.String("env", cfg.Env))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", slog.Any("error", err))
	}
}
