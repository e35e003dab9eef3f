package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	PostID    string    `json:"post_id" gorm:"size:64;not null;index"`
	AuthorID  string    `json:"author_id" gorm:"size:128;not null;index"`
	ParentID  *string   `json:"parent_id,omitempty" gorm:"size:36;index"` // set for replies
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	ParentID *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	Content  string  `json:"content" validate:"required,min=1,max=500"`
}

// ToggleInteractionRequest carries the caller's observed state, used only as a hint.
type ToggleInteractionRequest struct {
	Observed bool `json:"observed"`
}
