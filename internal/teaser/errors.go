// Package teaser implements teaser scheduling, content generation and the
// creation orchestrator for sparks.
package teaser

import "errors"

// errors
var (
	ErrSparkNotFound         = errors.New("spark not found")
	ErrCategoryNotFound      = errors.New("spark category not found")
	ErrTeaserNotFound        = errors.New("teaser not found")
	ErrInvalidTeaserCount    = errors.New("teaser count must be at least 1")
	ErrInvalidScheduleWindow = errors.New("launch date must be in the future")
	ErrGenerationFailed      = errors.New("teaser generation failed")
	ErrTeaserAlreadySent     = errors.New("teaser has already been sent")
	ErrEmptyContent          = errors.New("teaser content cannot be empty")
)
