package models

import "time"

// PostedDateLayout is the calendar-date encoding of DailyHighlight.PostedDate.
const PostedDateLayout = "2006-01-02"

// MaxHighlightLength is counted in characters, not bytes.
const MaxHighlightLength = 200

// DailyHighlight is a short plain-text post; at most one per author per day.
type DailyHighlight struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	AuthorID   string    `json:"author_id" gorm:"size:128;not null;uniqueIndex:idx_highlight_author_day"`
	Content    string    `json:"content" gorm:"size:1024;not null"`
	PostedDate string    `json:"posted_date" gorm:"size:10;not null;index;uniqueIndex:idx_highlight_author_day"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// CreateHighlightRequest defines the request body for posting today's highlight
type CreateHighlightRequest struct {
	Content string `json:"content" validate:"required,max=200,plaintext"`
}
