package models

import "github.com/google/uuid"

// Category groups sparks by theme and feeds the teaser generator with
// tone context when a spark has no description of its own.
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
}
