package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/devhub/backend/internal/models"
	"github.com/nats-io/nats.go"
)

// SubjectPrefix roots every entity-changed subject.
const SubjectPrefix = "devhub.entity"

// Change kinds.
const (
	ChangeInteraction  = "interaction"
	ChangeComment      = "comment"
	ChangeNotification = "notification"
	ChangeHighlight    = "highlight"
)

// EntityChanged identifies one changed row so subscribers can merge it
// instead of refetching whole collections.
type EntityChanged struct {
	Change          string                 `json:"change"`
	EntityType      models.TargetType      `json:"entity_type,omitempty"`
	EntityID        string                 `json:"entity_id"`
	InteractionKind models.InteractionKind `json:"interaction_kind,omitempty"`
	ActorID         string                 `json:"actor_id,omitempty"`
	RecipientID     string                 `json:"recipient_id,omitempty"`
	Active          bool                   `json:"active,omitempty"`
	Counts          map[string]int64       `json:"counts,omitempty"`
	OccurredAt      time.Time              `json:"occurred_at"`
}

// Subject is the NATS subject the event is published on.
func (e EntityChanged) Subject() string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, e.Change)
}

// Publisher emits EntityChanged events.
type Publisher interface {
	Publish(ctx context.Context, e EntityChanged) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EntityChanged) error { return nil }

// NATSPublisher publishes JSON-encoded events on a NATS connection.
type NATSPublisher struct {
	nc *nats.Conn
}

// Connect dials url and returns a publisher owning the connection.
func Connect(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("devhub-backend"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	slog.Info("NATS connected", slog.String("url", url))
	return &NATSPublisher{nc: nc}, nil
}

// NewNATSPublisher wraps an existing connection.
func NewNATSPublisher(nc *nats.Conn) *NATSPublisher {
	return &NATSPublisher{nc: nc}
}

func (p *NATSPublisher) Publish(_ context.Context, e EntityChanged) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.nc.Publish(e.Subject(), payload)
}

// Subscribe delivers every entity-changed event to handler. Malformed
// payloads are logged and skipped.
func (p *NATSPublisher) Subscribe(handler func(EntityChanged)) (*nats.Subscription, error) {
	return p.nc.Subscribe(SubjectPrefix+".>", func(msg *nats.Msg) {
		var e EntityChanged
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			slog.Warn("dropping malformed event", slog.String("subject", msg.Subject), slog.Any("error", err))
			return
		}
		handler(e)
	})
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		slog.Warn("nats drain", slog.Any("error", err))
	}
}
