package models

import "time"

// NotificationType is the closed set of notification kinds the UI knows how to render.
type NotificationType string

const (
	NotifyLike         NotificationType = "like"
	NotifyComment      NotificationType = "comment"
	NotifyReply        NotificationType = "reply"
	NotifyBookmark     NotificationType = "bookmark"
	NotifyContribution NotificationType = "contribution"
	NotifySystem       NotificationType = "system"
	NotifyFollow       NotificationType = "follow"
)

// Valid reports whether t belongs to the closed set.
func (t NotificationType) Valid() bool {
	switch t {
	case NotifyLike, NotifyComment, NotifyReply, NotifyBookmark, NotifyContribution, NotifySystem, NotifyFollow:
		return true
	}
	return false
}

// Notification represents a user notification
type Notification struct {
	ID          string           `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	RecipientID string           `json:"recipient_id" gorm:"size:128;not null;index:idx_notification_inbox" bson:"recipient_id"`
	ActorID     string           `json:"actor_id" gorm:"size:128;not null" bson:"actor_id"`
	Type        NotificationType `json:"type" gorm:"size:30;not null" bson:"type"`
	EntityType  TargetType       `json:"entity_type" gorm:"size:20" bson:"entity_type"`
	EntityID    string           `json:"entity_id" gorm:"size:128" bson:"entity_id"`
	Message     string           `json:"message" bson:"message"`
	IsRead      bool             `json:"is_read" gorm:"not null;default:false;index" bson:"is_read"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index:idx_notification_inbox" bson:"created_at"`
}

// NotificationGroups buckets an inbox by recency.
type NotificationGroups struct {
	Today     []Notification `json:"today"`
	Yesterday []Notification `json:"yesterday"`
	ThisWeek  []Notification `json:"thisWeek"`
	Older     []Notification `json:"older"`
}
