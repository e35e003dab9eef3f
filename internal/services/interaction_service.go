package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anonto42/devhub/backend/internal/events"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/jonboulle/clockwork"
)

// Notifier is the fan-out side effect of interaction writes. It must never
// fail the write that triggered it.
type Notifier interface {
	Dispatch(ctx context.Context, in NotifyInput)
}

// InteractionService toggles likes, bookmarks, stars and follows.
type InteractionService struct {
	interactions repositories.InteractionRepository
	notifier     Notifier
	publisher    events.Publisher
	clock        clockwork.Clock
	log          *slog.Logger
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(
	log *slog.Logger,
	clock clockwork.Clock,
	interactions repositories.InteractionRepository,
	notifier Notifier,
	publisher events.Publisher,
) *InteractionService {
	return &InteractionService{
		interactions: interactions,
		notifier:     notifier,
		publisher:    publisher,
		clock:        clock,
		log:          log.With("service", "interaction"),
	}
}

// Toggle flips the (principal, target, kind) tuple. observed only picks
// between insert-if-absent and delete-if-present; the returned state is
// whatever the store holds afterwards.
func (s *InteractionService) Toggle(ctx context.Context, session models.Session, kind models.InteractionKind, targetID string, observed bool) (models.ToggleResult, error) {
	change, err := s.set(ctx, session, kind, targetID, !observed)
	if err != nil {
		return models.ToggleResult{}, err
	}
	return models.ToggleResult{State: change.State, Counts: change.Target.Counts}, nil
}

// Status reads the caller's state and the target counters. Guests get
// state false.
func (s *InteractionService) Status(ctx context.Context, session models.Session, kind models.InteractionKind, targetID string) (models.ToggleResult, error) {
	target, err := s.interactions.Target(ctx, kind, targetID)
	if err != nil {
		return models.ToggleResult{}, fmt.Errorf("status %s: %w", kind, err)
	}
	result := models.ToggleResult{Counts: target.Counts}
	if session.IsGuest() {
		return result, nil
	}
	result.State, err = s.interactions.Exists(ctx, session.PrincipalID, kind, targetID)
	if err != nil {
		return models.ToggleResult{}, fmt.Errorf("status %s: %w", kind, err)
	}
	return result, nil
}

// Engagement reads the server-maintained engagement view of a post.
func (s *InteractionService) Engagement(ctx context.Context, postID string) (models.PostEngagement, error) {
	target, err := s.interactions.Target(ctx, models.KindLike, postID)
	if err != nil {
		return models.PostEngagement{}, fmt.Errorf("engagement: %w", err)
	}
	return models.PostEngagement{
		PostID:    target.ID,
		Likes:     target.Counts["likes_count"],
		Comments:  target.Counts["comments_count"],
		Bookmarks: target.Counts["bookmarks_count"],
		Score:     target.Counts["engagement_score"],
	}, nil
}

func (s *InteractionService) set(ctx context.Context, session models.Session, kind models.InteractionKind, targetID string, active bool) (repositories.InteractionChange, error) {
	if session.IsGuest() {
		return repositories.InteractionChange{}, models.ErrUnauthorized
	}
	if _, err := models.ParseInteractionKind(string(kind)); err != nil {
		return repositories.InteractionChange{}, err
	}
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return repositories.InteractionChange{}, models.NewValidationError("target_id", "required")
	}
	if kind == models.KindFollow && targetID == session.PrincipalID {
		return repositories.InteractionChange{}, fmt.Errorf("follow self: %w", models.ErrInvalidOperation)
	}

	change, err := s.interactions.Set(ctx, session.PrincipalID, kind, targetID, active)
	if err != nil {
		return repositories.InteractionChange{}, fmt.Errorf("set %s: %w", kind, err)
	}

	if !change.Changed {
		s.log.DebugContext(ctx, "interaction already in requested state",
			slog.String("kind", string(kind)),
			slog.String("target_id", targetID),
			slog.Bool("state", change.State),
		)
		return change, nil
	}

	s.log.InfoContext(ctx, "interaction changed",
		slog.String("user_id", session.PrincipalID),
		slog.String("kind", string(kind)),
		slog.String("target_id", targetID),
		slog.Bool("state", change.State),
	)

	if change.State {
		s.fanOut(ctx, session.PrincipalID, kind, change.Target)
	}
	if err := s.publisher.Publish(ctx, events.EntityChanged{
		Change:          events.ChangeInteraction,
		EntityType:      change.Target.Type,
		EntityID:        change.Target.ID,
		InteractionKind: kind,
		ActorID:         session.PrincipalID,
		Active:          change.State,
		Counts:          change.Target.Counts,
		OccurredAt:      s.clock.Now().UTC(),
	}); err != nil {
		s.log.WarnContext(ctx, "event publish failed", slog.Any("error", err))
	}
	return change, nil
}

// fanOut runs only for newly created rows; toggle-off never notifies.
func (s *InteractionService) fanOut(ctx context.Context, actorID string, kind models.InteractionKind, target models.Target) {
	in := NotifyInput{
		RecipientID: target.OwnerID,
		ActorID:     actorID,
		EntityType:  target.Type,
		EntityID:    target.ID,
	}
	switch kind {
	case models.KindLike, models.KindStar:
		in.Type = models.NotifyLike
	case models.KindBookmark:
		in.Type = models.NotifyBookmark
	case models.KindFollow:
		in.Type = models.NotifyFollow
		in.EntityID = actorID
	default:
		return
	}
	s.notifier.Dispatch(ctx, in)
}
