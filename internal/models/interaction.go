package models

import "time"

// InteractionKind is the closed set of toggleable relations.
type InteractionKind string

const (
	KindLike     InteractionKind = "like"
	KindBookmark InteractionKind = "bookmark"
	KindStar     InteractionKind = "star"
	KindFollow   InteractionKind = "follow"
)

// ParseInteractionKind validates a kind coming from the transport layer.
func ParseInteractionKind(s string) (InteractionKind, error) {
	switch k := InteractionKind(s); k {
	case KindLike, KindBookmark, KindStar, KindFollow:
		return k, nil
	}
	return "", NewValidationError("kind", "must be one of like, bookmark, star, follow")
}

// TargetType returns the target variant a kind applies to.
func (k InteractionKind) TargetType() TargetType {
	switch k {
	case KindStar:
		return TargetProject
	case KindFollow:
		return TargetProfile
	default:
		return TargetPost
	}
}

// CounterField is the denormalized counter a kind maintains on its target.
func (k InteractionKind) CounterField() string {
	switch k {
	case KindLike:
		return "likes_count"
	case KindBookmark:
		return "bookmarks_count"
	case KindStar:
		return "star_count"
	case KindFollow:
		return "followers_count"
	}
	return ""
}

// Interaction is a (principal, target, kind) relation. The row existing is the state.
type Interaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	PrincipalID string          `json:"principal_id" gorm:"size:128;not null;uniqueIndex:idx_interaction_tuple"`
	TargetID    string          `json:"target_id" gorm:"size:128;not null;index;uniqueIndex:idx_interaction_tuple"`
	Kind        InteractionKind `json:"kind" gorm:"size:16;not null;uniqueIndex:idx_interaction_tuple"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToggleResult is the authoritative state after a toggle.
type ToggleResult struct {
	State  bool             `json:"state"`
	Counts map[string]int64 `json:"counts"`
}
