// Package reconcile keeps the locally rendered state of toggle controls in
// step with the server. A toggle is projected immediately, then either
// confirmed by the server result or rolled back to exactly what was shown
// before.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/anonto42/devhub/backend/internal/events"
	"github.com/anonto42/devhub/backend/internal/models"
)

var (
	// ErrSignInRequired is returned for guests before anything is projected.
	ErrSignInRequired = fmt.Errorf("sign in required: %w", models.ErrUnauthorized)
	// ErrPending rejects a toggle on a control whose previous toggle has not
	// settled yet.
	ErrPending = errors.New("toggle already in flight")
)

// Phase of one tracked control.
type Phase int

const (
	Settled Phase = iota
	Pending
)

func (p Phase) String() string {
	if p == Pending {
		return "pending"
	}
	return "settled"
}

// Key identifies one control for the tracker's session.
type Key struct {
	Kind     models.InteractionKind
	TargetID string
}

// Snapshot is everything a toggle may change on screen.
type Snapshot struct {
	Active bool
	Counts map[string]int64
}

func (s Snapshot) clone() Snapshot {
	counts := maps.Clone(s.Counts)
	if counts == nil {
		counts = map[string]int64{}
	}
	return Snapshot{Active: s.Active, Counts: counts}
}

// View is the rendered state of a control.
type View struct {
	Phase    Phase
	Snapshot Snapshot
}

// Toggler performs the server call. observed is the state the caller showed
// before the toggle.
type Toggler interface {
	Toggle(ctx context.Context, kind models.InteractionKind, targetID string, observed bool) (models.ToggleResult, error)
}

type entry struct {
	phase Phase
	snap  Snapshot
}

// Tracker holds the optimistic state of every control a session renders.
// It is safe for concurrent use.
type Tracker struct {
	session models.Session
	toggler Toggler
	log     *slog.Logger

	mu      sync.Mutex
	entries map[Key]*entry
}

// NewTracker creates a Tracker for session.
func NewTracker(log *slog.Logger, session models.Session, toggler Toggler) *Tracker {
	return &Tracker{
		session: session,
		toggler: toggler,
		log:     log.With("component", "reconcile"),
		entries: make(map[Key]*entry),
	}
}

// Seed loads server truth for key. Pending entries keep their projection.
func (t *Tracker) Seed(key Key, snap Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[key]; ok && e.phase == Pending {
		return
	}
	t.entries[key] = &entry{phase: Settled, snap: snap.clone()}
}

// View returns the rendered state of key. Unknown keys read as settled and
// inactive with no counts.
func (t *Tracker) View(key Key) View {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		return View{Phase: Settled, Snapshot: Snapshot{Counts: map[string]int64{}}}
	}
	return View{Phase: e.phase, Snapshot: e.snap.clone()}
}

// Forget drops key. A toggle still in flight for it completes but its result
// is discarded.
func (t *Tracker) Forget(key Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// Toggle flips key optimistically and reconciles with the server. On
// success the returned snapshot is the server's; on failure every projected
// field is restored and the error is returned.
func (t *Tracker) Toggle(ctx context.Context, key Key) (Snapshot, error) {
	if t.session.IsGuest() {
		return Snapshot{}, ErrSignInRequired
	}

	t.mu.Lock()
	e, ok := t.entries[key]
	if !ok {
		e = &entry{snap: Snapshot{Counts: map[string]int64{}}}
		t.entries[key] = e
	}
	if e.phase == Pending {
		t.mu.Unlock()
		return Snapshot{}, ErrPending
	}
	prior := e.snap.clone()
	e.snap = project(key.Kind, prior)
	e.phase = Pending
	t.mu.Unlock()

	res, err := t.toggler.Toggle(ctx, key.Kind, key.TargetID, prior.Active)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.entries[key] != e {
		t.log.DebugContext(ctx, "discarding result for forgotten control",
			slog.String("kind", string(key.Kind)),
			slog.String("target_id", key.TargetID),
		)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Active: res.State, Counts: maps.Clone(res.Counts)}, nil
	}

	e.phase = Settled
	if err != nil {
		e.snap = prior
		t.log.WarnContext(ctx, "toggle rolled back",
			slog.String("kind", string(key.Kind)),
			slog.String("target_id", key.TargetID),
			slog.Any("error", err),
		)
		return prior.clone(), err
	}

	counts := e.snap.Counts
	maps.Copy(counts, res.Counts)
	e.snap = Snapshot{Active: res.State, Counts: counts}
	return e.snap.clone(), nil
}

// Apply merges a server event into settled controls. Pending controls are
// left alone; their own call settles them.
func (t *Tracker) Apply(ev events.EntityChanged) {
	if len(ev.Counts) == 0 && ev.Change != events.ChangeInteraction {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for key, e := range t.entries {
		if e.phase == Pending || key.TargetID != ev.EntityID {
			continue
		}
		if ev.EntityType != "" && key.Kind.TargetType() != ev.EntityType {
			continue
		}
		maps.Copy(e.snap.Counts, ev.Counts)
		if ev.Change == events.ChangeInteraction && ev.InteractionKind == key.Kind && ev.ActorID == t.session.PrincipalID {
			e.snap.Active = ev.Active
		}
	}
}

// project is the local guess of what the server will return: the flag
// flipped and every counter the kind drives moved by one step.
func project(kind models.InteractionKind, prior Snapshot) Snapshot {
	next := prior.clone()
	next.Active = !prior.Active

	step := int64(1)
	if prior.Active {
		step = -1
	}
	bump := func(field string, by int64) {
		v := next.Counts[field] + by
		if v < 0 {
			v = 0
		}
		next.Counts[field] = v
	}

	bump(kind.CounterField(), step)
	switch kind {
	case models.KindLike:
		if _, ok := next.Counts["engagement_score"]; ok {
			bump("engagement_score", step*models.LikeWeight)
		}
	case models.KindBookmark:
		if _, ok := next.Counts["engagement_score"]; ok {
			bump("engagement_score", step*models.BookmarkWeight)
		}
	}
	return next
}
