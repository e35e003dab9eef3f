package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/devhub/backend/internal/cache"
	"github.com/anonto42/devhub/backend/internal/events"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/anonto42/devhub/backend/internal/services"
	"github.com/anonto42/devhub/backend/internal/testutil"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.EntityChanged
}

func (p *recordingPublisher) Publish(_ context.Context, e events.EntityChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) byChange(change string) []events.EntityChanged {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.EntityChanged
	for _, e := range p.events {
		if e.Change == change {
			out = append(out, e)
		}
	}
	return out
}

// failingInbox rejects every write.
type failingInbox struct {
	repositories.NotificationRepository
}

func (failingInbox) CreateNotification(context.Context, *models.Notification) error {
	return errors.New("inbox unavailable")
}

type env struct {
	db            *gorm.DB
	clock         *clockwork.FakeClock
	publisher     *recordingPublisher
	inbox         repositories.NotificationRepository
	notifications *services.NotificationService
	interactions  *services.InteractionService
	follows       *services.FollowService
	highlights    *services.HighlightService
	comments      *services.CommentService
}

type envOption func(*envConfig)

type envConfig struct {
	inbox func(repositories.NotificationRepository) repositories.NotificationRepository
	cache cache.HighlightCache
	loc   *time.Location
}

func withInbox(wrap func(repositories.NotificationRepository) repositories.NotificationRepository) envOption {
	return func(c *envConfig) { c.inbox = wrap }
}

func withCache(hc cache.HighlightCache) envOption {
	return func(c *envConfig) { c.cache = hc }
}

func withLocation(loc *time.Location) envOption {
	return func(c *envConfig) { c.loc = loc }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()

	cfg := envConfig{
		inbox: func(r repositories.NotificationRepository) repositories.NotificationRepository { return r },
		cache: cache.NopHighlightCache{},
		loc:   time.UTC,
	}
	for _, o := range opts {
		o(&cfg)
	}

	db := testutil.NewDB(t)
	clock := clockwork.NewFakeClockAt(testNow)
	pub := &recordingPublisher{}
	log := discardLogger()

	inbox := repositories.NewPostgresNotificationRepository(db)
	users := repositories.NewPostgresUserRepository(db)
	interactionRepo := repositories.NewPostgresInteractionRepository(db)

	notifications := services.NewNotificationService(log, clock, cfg.loc, cfg.inbox(inbox), users, pub)
	interactions := services.NewInteractionService(log, clock, interactionRepo, notifications, pub)

	return &env{
		db:            db,
		clock:         clock,
		publisher:     pub,
		inbox:         inbox,
		notifications: notifications,
		interactions:  interactions,
		follows:       services.NewFollowService(interactions, interactionRepo),
		highlights: services.NewHighlightService(log, clock, cfg.loc,
			repositories.NewPostgresHighlightRepository(db), cfg.cache, pub),
		comments: services.NewCommentService(log, clock,
			repositories.NewPostgresCommentRepository(db), notifications, pub),
	}
}

func session(id string) models.Session {
	return models.Session{PrincipalID: id}
}

func (e *env) inboxOf(t *testing.T, userID string) []models.Notification {
	t.Helper()
	var out []models.Notification
	if err := e.db.Where("recipient_id = ?", userID).Order("created_at ASC").Find(&out).Error; err != nil {
		t.Fatalf("read inbox: %v", err)
	}
	return out
}

func (e *env) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
