package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anonto42/devhub/backend/internal/cache"
	"github.com/anonto42/devhub/backend/internal/events"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/anonto42/devhub/backend/validators"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// HighlightService enforces one plain-text highlight per author per day and
// serves the two-day visibility window.
type HighlightService struct {
	highlights repositories.HighlightRepository
	cache      cache.HighlightCache
	publisher  events.Publisher
	validate   *validator.Validate
	clock      clockwork.Clock
	loc        *time.Location
	log        *slog.Logger
}

// NewHighlightService creates a new HighlightService. loc is the canonical
// timezone posted dates are computed in.
func NewHighlightService(
	log *slog.Logger,
	clock clockwork.Clock,
	loc *time.Location,
	highlights repositories.HighlightRepository,
	highlightCache cache.HighlightCache,
	publisher events.Publisher,
) *HighlightService {
	return &HighlightService{
		highlights: highlights,
		cache:      highlightCache,
		publisher:  publisher,
		validate:   validators.New(),
		clock:      clock,
		loc:        loc,
		log:        log.With("service", "highlight"),
	}
}

// Post stores today's highlight for the caller. The posted date always comes
// from the server clock. A second post on the same day fails with
// models.ErrAlreadyPostedToday.
func (s *HighlightService) Post(ctx context.Context, session models.Session, content string) (*models.DailyHighlight, error) {
	if session.IsGuest() {
		return nil, models.ErrUnauthorized
	}

	content = strings.TrimSpace(content)
	if err := validators.Struct(s.validate, models.CreateHighlightRequest{Content: content}); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := s.day(now, 0)
	h := &models.DailyHighlight{
		ID:         uuid.NewString(),
		AuthorID:   session.PrincipalID,
		Content:    content,
		PostedDate: today,
		CreatedAt:  now.UTC(),
	}

	created, err := s.highlights.InsertIfAbsent(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("post highlight: %w", err)
	}
	if !created {
		return nil, models.ErrAlreadyPostedToday
	}

	if err := s.cache.Invalidate(ctx, today); err != nil {
		s.log.WarnContext(ctx, "highlight cache invalidate failed", slog.Any("error", err))
	}
	if err := s.publisher.Publish(ctx, events.EntityChanged{
		Change:     events.ChangeHighlight,
		EntityID:   h.ID,
		ActorID:    h.AuthorID,
		OccurredAt: h.CreatedAt,
	}); err != nil {
		s.log.WarnContext(ctx, "event publish failed", slog.Any("error", err))
	}

	s.log.InfoContext(ctx, "highlight posted",
		slog.String("user_id", h.AuthorID),
		slog.String("highlight_id", h.ID),
		slog.String("posted_date", h.PostedDate),
	)
	return h, nil
}

// ListCurrent returns highlights posted today or yesterday, newest first.
func (s *HighlightService) ListCurrent(ctx context.Context) ([]models.DailyHighlight, error) {
	now := s.clock.Now()
	today := s.day(now, 0)

	if cached, ok, err := s.cache.Get(ctx, today); err != nil {
		s.log.WarnContext(ctx, "highlight cache read failed", slog.Any("error", err))
	} else if ok {
		return cached, nil
	}

	list, err := s.highlights.ListByPostedDates(ctx, []string{today, s.day(now, -1)})
	if err != nil {
		return nil, fmt.Errorf("list highlights: %w", err)
	}
	if list == nil {
		list = []models.DailyHighlight{}
	}

	if err := s.cache.Set(ctx, today, list); err != nil {
		s.log.WarnContext(ctx, "highlight cache write failed", slog.Any("error", err))
	}
	return list, nil
}

func (s *HighlightService) day(now time.Time, offset int) string {
	local := now.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day()+offset, 0, 0, 0, 0, s.loc).Format(models.PostedDateLayout)
}
