package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ignitelabs/sparkd/internal/models"
)

// TeaserFilter narrows teaser listings.
type TeaserFilter struct {
	SparkID *uuid.UUID
	Sent    *bool
}

// TeaserUpdate carries the mutable fields of an unsent teaser.
// Nil fields are left untouched.
type TeaserUpdate struct {
	Content       *string
	ScheduledDate *time.Time
}

// TeasersRepository handles teaser records.
type TeasersRepository struct {
	db *gorm.DB
}

// NewTeasersRepository creates a new teasers repository.
func NewTeasersRepository(db *gorm.DB) *TeasersRepository {
	return &TeasersRepository{db: db}
}

// Create creates a new teaser.
func (r *TeasersRepository) Create(ctx context.Context, t *models.Teaser) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create teaser: %w", err)
	}
	return nil
}

// GetByID returns a teaser by its id.
func (r *TeasersRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Teaser, error) {
	var t models.Teaser
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get teaser: %w", err)
	}
	return &t, nil
}

// List returns teasers matching the filter, newest schedule first,
// with page starting at 1.
func (r *TeasersRepository) List(ctx context.Context, filter TeaserFilter, page, limit int) ([]models.Teaser, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	q := r.db.WithContext(ctx).Model(&models.Teaser{})
	if filter.SparkID != nil {
		q = q.Where("spark_id = ?", *filter.SparkID)
	}
	if filter.Sent != nil {
		q = q.Where("sent = ?", *filter.Sent)
	}

	var teasers []models.Teaser
	err := q.Order("scheduled_date desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&teasers).Error
	if err != nil {
		return nil, fmt.Errorf("list teasers: %w", err)
	}
	return teasers, nil
}

// FindDue returns unsent teasers whose scheduled date has passed,
// ascending by scheduled date for stable operator-visible ordering.
func (r *TeasersRepository) FindDue(ctx context.Context, now time.Time) ([]models.Teaser, error) {
	var teasers []models.Teaser
	err := r.db.WithContext(ctx).
		Where("sent = ? AND scheduled_date <= ?", false, now).
		Order("scheduled_date asc").
		Find(&teasers).Error
	if err != nil {
		return nil, fmt.Errorf("find due teasers: %w", err)
	}
	return teasers, nil
}

// Update applies content/schedule changes to a teaser.
// The sent flag is never touched here; that is MarkSent's job.
func (r *TeasersRepository) Update(ctx context.Context, id uuid.UUID, upd TeaserUpdate) (*models.Teaser, error) {
	fields := map[string]interface{}{}
	if upd.Content != nil {
		fields["content"] = *upd.Content
	}
	if upd.ScheduledDate != nil {
		fields["scheduled_date"] = *upd.ScheduledDate
	}
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.Teaser{}).
			Where("id = ?", id).
			Updates(fields)
		if res.Error != nil {
			return nil, fmt.Errorf("update teaser: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// MarkSent flips the sent flag to true. The flag is monotonic: the
// guarded where clause makes a second call a no-op rather than an error.
func (r *TeasersRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Teaser{}).
		Where("id = ? AND sent = ?", id, false).
		Update("sent", true)
	if res.Error != nil {
		return fmt.Errorf("mark teaser sent: %w", res.Error)
	}
	return nil
}

// Delete removes a teaser.
func (r *TeasersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Teaser{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete teaser: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
