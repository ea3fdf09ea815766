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

// SparksRepository handles spark records and their subscriber sets.
type SparksRepository struct {
	db *gorm.DB
}

// NewSparksRepository creates a new sparks repository.
func NewSparksRepository(db *gorm.DB) *SparksRepository {
	return &SparksRepository{db: db}
}

// Create creates a new spark.
func (r *SparksRepository) Create(ctx context.Context, s *models.Spark) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create spark: %w", err)
	}
	return nil
}

// GetByID returns a spark without loading its subscriber set.
func (r *SparksRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Spark, error) {
	var s models.Spark
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get spark: %w", err)
	}
	return &s, nil
}

// GetWithSubscribers returns a spark with its current subscriber set.
// The dispatcher calls this at send time so the set is always live.
func (r *SparksRepository) GetWithSubscribers(ctx context.Context, id uuid.UUID) (*models.Spark, error) {
	var s models.Spark
	err := r.db.WithContext(ctx).Preload("Subscribers").First(&s, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get spark with subscribers: %w", err)
	}
	return &s, nil
}

// AddSubscriber adds a user to the spark's subscriber set.
func (r *SparksRepository) AddSubscriber(ctx context.Context, sparkID, userID uuid.UUID) error {
	spark := models.Spark{ID: sparkID}
	user := models.User{ID: userID}
	if err := r.db.WithContext(ctx).Model(&spark).Association("Subscribers").Append(&user); err != nil {
		return fmt.Errorf("add subscriber: %w", err)
	}
	return nil
}

// RemoveSubscriber removes a user from the spark's subscriber set.
func (r *SparksRepository) RemoveSubscriber(ctx context.Context, sparkID, userID uuid.UUID) error {
	spark := models.Spark{ID: sparkID}
	user := models.User{ID: userID}
	if err := r.db.WithContext(ctx).Model(&spark).Association("Subscribers").Delete(&user); err != nil {
		return fmt.Errorf("remove subscriber: %w", err)
	}
	return nil
}

// FindLaunchDue returns unlaunched sparks whose launch date has passed,
// ascending by launch date.
func (r *SparksRepository) FindLaunchDue(ctx context.Context, now time.Time) ([]models.Spark, error) {
	var sparks []models.Spark
	err := r.db.WithContext(ctx).
		Where("is_launched = ? AND launch_date <= ?", false, now).
		Order("launch_date asc").
		Find(&sparks).Error
	if err != nil {
		return nil, fmt.Errorf("find launch-due sparks: %w", err)
	}
	return sparks, nil
}

// MarkLaunched sets the launched flag on a spark.
func (r *SparksRepository) MarkLaunched(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Spark{}).
		Where("id = ? AND is_launched = ?", id, false).
		Update("is_launched", true)
	if res.Error != nil {
		return fmt.Errorf("mark spark launched: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
