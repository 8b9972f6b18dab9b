// Package review implements the highlight review backend: storage and a
// REST API for humans to approve, reject, and publish video highlight
// clips with transcript context.
package review

import (
	"database/sql"
	"time"
)

// HighlightStatus is the review state of a highlight.
type HighlightStatus string

const (
	HighlightPending   HighlightStatus = "pending"
	HighlightApproved  HighlightStatus = "approved"
	HighlightRejected  HighlightStatus = "rejected"
	HighlightPublished HighlightStatus = "published"
)

// ValidStatus reports whether s is a known review status.
func ValidStatus(s HighlightStatus) bool {
	switch s {
	case HighlightPending, HighlightApproved, HighlightRejected, HighlightPublished:
		return true
	}
	return false
}

// Channel is a video channel whose uploads are analyzed.
type Channel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	LastChecked time.Time `json:"last_checked"`
}

// Video is one analyzed upload.
type Video struct {
	ID          string    `json:"id"`
	ChannelID   string    `json:"channel_id"`
	Title       string    `json:"title"`
	Duration    int       `json:"duration"` // seconds
	ProcessedAt time.Time `json:"processed_at"`
}

// Highlight is one extracted clip candidate with its transcript context.
type Highlight struct {
	ID         string          `json:"id"`
	VideoID    string          `json:"video_id"`
	TimeStart  int             `json:"time_start"` // seconds into the video
	TimeEnd    int             `json:"time_end"`
	Topic      string          `json:"topic"`
	Quote      string          `json:"quote"`
	Insight    string          `json:"insight"`
	Takeaway   string          `json:"takeaway"`
	Context    string          `json:"context"` // surrounding transcript
	Status     HighlightStatus `json:"status"`
	Comments   string          `json:"comments"`
	ReviewedAt sql.NullTime    `json:"reviewed_at"`
}
