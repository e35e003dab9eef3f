package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/devhub/backend/internal/events"
	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/anonto42/devhub/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
	groupedWindow   = 200
)

// NotifyInput describes one notification event.
type NotifyInput struct {
	RecipientID string
	ActorID     string
	Type        models.NotificationType
	EntityType  models.TargetType
	EntityID    string
	Message     string
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

// NotificationPage is one page of an inbox.
type NotificationPage struct {
	Notifications []EnrichedNotification `json:"notifications"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

// NotificationService stores notifications and serves each recipient's inbox.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	publisher     events.Publisher
	clock         clockwork.Clock
	loc           *time.Location
	log           *slog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	log *slog.Logger,
	clock clockwork.Clock,
	loc *time.Location,
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	publisher events.Publisher,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		publisher:     publisher,
		clock:         clock,
		loc:           loc,
		log:           log.With("service", "notification"),
	}
}

// Notify stores a notification for in.RecipientID. Self-notifications are
// dropped without error; unknown types are rejected.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) error {
	if in.RecipientID == "" || in.RecipientID == in.ActorID {
		return nil
	}
	if !in.Type.Valid() {
		return models.NewValidationError("type", fmt.Sprintf("unknown notification type %q", in.Type))
	}

	n := &models.Notification{
		ID:          uuid.NewString(),
		RecipientID: in.RecipientID,
		ActorID:     in.ActorID,
		Type:        in.Type,
		EntityType:  in.EntityType,
		EntityID:    in.EntityID,
		Message:     in.Message,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if n.Message == "" {
		n.Message = s.message(ctx, in)
	}

	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	s.publish(ctx, events.EntityChanged{
		Change:      events.ChangeNotification,
		EntityType:  n.EntityType,
		EntityID:    n.ID,
		ActorID:     n.ActorID,
		RecipientID: n.RecipientID,
		OccurredAt:  n.CreatedAt,
	})
	return nil
}

// Dispatch is the fire-and-forget form of Notify used as a side effect of
// other writes: failures are logged and dropped.
func (s *NotificationService) Dispatch(ctx context.Context, in NotifyInput) {
	if err := s.Notify(ctx, in); err != nil {
		s.log.WarnContext(ctx, "notification dropped",
			slog.String("recipient_id", in.RecipientID),
			slog.String("actor_id", in.ActorID),
			slog.String("type", string(in.Type)),
			slog.Any("error", err),
		)
	}
}

// List returns a page of the caller's own inbox, newest first.
func (s *NotificationService) List(ctx context.Context, session models.Session, recipientID string, page, limit int) (*NotificationPage, error) {
	if err := ownInbox(session, recipientID); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	list, total, err := s.notifications.GetByRecipientID(ctx, recipientID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return &NotificationPage{
		Notifications: s.enrich(ctx, list),
		Total:         total,
		Page:          page,
		Limit:         limit,
	}, nil
}

// Grouped buckets the most recent notifications into today, yesterday, the
// rest of the last week and older. Day boundaries follow the configured
// location.
func (s *NotificationService) Grouped(ctx context.Context, session models.Session) (*models.NotificationGroups, error) {
	if session.IsGuest() {
		return nil, models.ErrUnauthorized
	}
	list, _, err := s.notifications.GetByRecipientID(ctx, session.PrincipalID, groupedWindow, 0)
	if err != nil {
		return nil, fmt.Errorf("group notifications: %w", err)
	}

	now := s.clock.Now().In(s.loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	groups := &models.NotificationGroups{
		Today:     []models.Notification{},
		Yesterday: []models.Notification{},
		ThisWeek:  []models.Notification{},
		Older:     []models.Notification{},
	}
	for _, n := range list {
		switch at := n.CreatedAt; {
		case !at.Before(todayStart):
			groups.Today = append(groups.Today, n)
		case !at.Before(yesterdayStart):
			groups.Yesterday = append(groups.Yesterday, n)
		case !at.Before(weekStart):
			groups.ThisWeek = append(groups.ThisWeek, n)
		default:
			groups.Older = append(groups.Older, n)
		}
	}
	return groups, nil
}

// UnreadCount counts the caller's unread rows.
func (s *NotificationService) UnreadCount(ctx context.Context, session models.Session) (int64, error) {
	if session.IsGuest() {
		return 0, models.ErrUnauthorized
	}
	count, err := s.notifications.GetUnreadCount(ctx, session.PrincipalID)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return count, nil
}

// MarkRead flips is_read on one of the caller's notifications.
func (s *NotificationService) MarkRead(ctx context.Context, session models.Session, id string) error {
	if session.IsGuest() {
		return models.ErrUnauthorized
	}
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if n.RecipientID != session.PrincipalID {
		return fmt.Errorf("mark read %s: %w", id, models.ErrUnauthorized)
	}
	if n.IsRead {
		return nil
	}
	if err := s.notifications.MarkAsRead(ctx, id); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// MarkAllRead flips every unread notification of the caller.
func (s *NotificationService) MarkAllRead(ctx context.Context, session models.Session) error {
	if session.IsGuest() {
		return models.ErrUnauthorized
	}
	n, err := s.notifications.MarkAllAsRead(ctx, session.PrincipalID)
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	s.log.DebugContext(ctx, "notifications marked read",
		slog.String("user_id", session.PrincipalID),
		slog.Int64("count", n),
	)
	return nil
}

func (s *NotificationService) enrich(ctx context.Context, list []models.Notification) []EnrichedNotification {
	ids := make([]string, 0, len(list))
	for _, n := range list {
		ids = append(ids, n.ActorID)
	}
	actors, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		s.log.WarnContext(ctx, "actor lookup failed", slog.Any("error", err))
		actors = map[string]models.Profile{}
	}

	enriched := make([]EnrichedNotification, len(list))
	for i, n := range list {
		enriched[i] = EnrichedNotification{Notification: n}
		if actor, ok := actors[n.ActorID]; ok {
			enriched[i].Actor = actor.ToCompact()
		} else {
			enriched[i].Actor = models.UserCompact{ID: n.ActorID}
		}
	}
	return enriched
}

func (s *NotificationService) message(ctx context.Context, in NotifyInput) string {
	name := "Someone"
	if actor, err := s.users.GetUserByID(ctx, in.ActorID); err == nil && actor.DisplayName != "" {
		name = actor.DisplayName
	}

	switch in.Type {
	case models.NotifyLike:
		if in.EntityType == models.TargetProject {
			return name + " starred your project"
		}
		return name + " liked your post"
	case models.NotifyBookmark:
		return name + " bookmarked your post"
	case models.NotifyComment:
		return name + " commented on your post"
	case models.NotifyReply:
		return name + " replied to your comment"
	case models.NotifyFollow:
		return name + " started following you"
	case models.NotifyContribution:
		return name + " contributed to your project"
	}
	return ""
}

func (s *NotificationService) publish(ctx context.Context, e events.EntityChanged) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.WarnContext(ctx, "event publish failed", slog.String("change", e.Change), slog.Any("error", err))
	}
}

func ownInbox(session models.Session, recipientID string) error {
	if session.IsGuest() || session.PrincipalID != recipientID {
		return models.ErrUnauthorized
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return page, limit
}
