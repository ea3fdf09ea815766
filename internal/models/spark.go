package models

import (
	"time"

	"github.com/google/uuid"
)

// FileType represents the kind of content a spark releases.
type FileType string

// FileType constants define the supported spark content types.
const (
	FileTypeImage    FileType = "image"
	FileTypeVideo    FileType = "video"
	FileTypePDF      FileType = "pdf"
	FileTypeMarkdown FileType = "markdown"
)

// Spark is a content-release unit. Teasers are scheduled before its
// launch date; subscribers receive them as they come due.
type Spark struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	ContentURL  string    `json:"content_url"`
	FileType    FileType  `json:"file_type"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id" gorm:"type:uuid"`
	CreatorID   uuid.UUID `json:"creator_id" gorm:"type:uuid;not null"`
	LaunchDate  time.Time `json:"launch_date" gorm:"not null"`
	IsLaunched  bool      `json:"is_launched"`

	// subscriber set is mutated by the subscription service; the
	// dispatcher reads it live at send time
	Subscribers []User `json:"subscribers,omitempty" gorm:"many2many:spark_subscribers"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LaunchDue reports whether the spark's launch date has passed but the
// launched flag has not been set yet.
func (s *Spark) LaunchDue(now time.Time) bool {
	return !s.IsLaunched && !s.LaunchDate.After(now)
}
