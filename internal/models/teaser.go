package models

import (
	"time"

	"github.com/google/uuid"
)

// Teaser is a scheduled promotional message tied to one spark.
// It is immutable after creation except for the sent flag, which moves
// false→true exactly once when the dispatcher delivers it.
type Teaser struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SparkID       uuid.UUID `json:"spark_id" gorm:"type:uuid;not null;index"`
	Content       string    `json:"content" gorm:"not null"`
	ScheduledDate time.Time `json:"scheduled_date" gorm:"not null;index"`
	Sent          bool      `json:"sent" gorm:"not null;default:false;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsDue reports whether the teaser should be delivered at the given time.
func (t *Teaser) IsDue(now time.Time) bool {
	return !t.Sent && !t.ScheduledDate.After(now)
}
