package teaser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignitelabs/sparkd/internal/logger"
	"github.com/ignitelabs/sparkd/internal/models"
	"github.com/ignitelabs/sparkd/internal/repository"
)

// SparkStore defines the spark lookups the orchestrator needs.
type SparkStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Spark, error)
}

// CategoryStore defines the category lookups the orchestrator needs.
type CategoryStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// TeaserStore defines the teaser persistence the orchestrator needs.
type TeaserStore interface {
	Create(ctx context.Context, t *models.Teaser) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Teaser, error)
	List(ctx context.Context, filter repository.TeaserFilter, page, limit int) ([]models.Teaser, error)
	Update(ctx context.Context, id uuid.UUID, upd repository.TeaserUpdate) (*models.Teaser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContentGenerator produces teaser text for a generation request.
type ContentGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// TeaserCreatedEvent is published when a teaser is persisted.
type TeaserCreatedEvent struct {
	TeaserID      uuid.UUID `json:"teaser_id"`
	SparkID       uuid.UUID `json:"spark_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// EventPublisher publishes teaser lifecycle events.
type EventPublisher interface {
	PublishTeaserCreated(ctx context.Context, event TeaserCreatedEvent) error
}

// Service orchestrates teaser creation for sparks.
type Service struct {
	sparks     SparkStore
	categories CategoryStore
	teasers    TeaserStore
	generator  ContentGenerator
	publisher  EventPublisher
	log        *logger.Logger
}

// NewService creates a new teaser service. publisher may be nil.
func NewService(
	sparks SparkStore,
	categories CategoryStore,
	teasers TeaserStore,
	generator ContentGenerator,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		sparks:     sparks,
		categories: categories,
		teasers:    teasers,
		generator:  generator,
		publisher:  publisher,
		log:        log,
	}
}

// CreateTeasers generates numTeasers teasers for a spark, spread evenly
// between now and the spark's launch date.
//
// Creation is sequential and each teaser is persisted as soon as it is
// generated. A generation or persistence failure mid-batch stops the loop
// but keeps the teasers created so far; the caller gets both the partial
// result and the error. Nothing is rolled back.
func (s *Service) CreateTeasers(ctx context.Context, sparkID uuid.UUID, numTeasers int, description, style string) ([]models.Teaser, error) {
	spark, err := s.sparks.GetByID(ctx, sparkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSparkNotFound
		}
		return nil, fmt.Errorf("load spark: %w", err)
	}

	category, err := s.categories.GetByID(ctx, spark.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	schedule, err := ComputeSchedule(numTeasers, time.Now(), spark.LaunchDate)
	if err != nil {
		return nil, err
	}

	if description == "" {
		description = spark.Description
	}
	if style == "" {
		style = DefaultStyle
	}

	created := make([]models.Teaser, 0, numTeasers)
	for _, slot := range schedule {
		// the generator makes a network call per slot; bail out between
		// iterations when the request deadline is gone
		if err := ctx.Err(); err != nil {
			return created, err
		}

		text, err := s.generator.Generate(ctx, GenerationRequest{
			SparkTitle:          spark.Title,
			SparkDescription:    spark.Description,
			CategoryName:        category.Name,
			CategoryDescription: category.Description,
			Description:         description,
			Style:               style,
		})
		if err != nil {
			s.log.Error().Err(err).
				Str("spark_id", sparkID.String()).
				Int("created_so_far", len(created)).
				Msg("teaser generation failed, keeping partial batch")
			return created, err
		}

		teaser := models.Teaser{
			SparkID:       sparkID,
			Content:       text,
			ScheduledDate: slot,
			Sent:          false,
		}
		if err := s.teasers.Create(ctx, &teaser); err != nil {
			return created, fmt.Errorf("persist teaser: %w", err)
		}
		created = append(created, teaser)

		s.publishCreated(ctx, teaser)
	}

	s.log.Info().
		Str("spark_id", sparkID.String()).
		Int("count", len(created)).
		Time("first_slot", schedule[0]).
		Time("last_slot", schedule[len(schedule)-1]).
		Msg("created teaser batch")

	return created, nil
}

// CreateTeaser persists a single user-authored teaser.
func (s *Service) CreateTeaser(ctx context.Context, sparkID uuid.UUID, content string, scheduledDate time.Time) (*models.Teaser, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	if _, err := s.sparks.GetByID(ctx, sparkID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSparkNotFound
		}
		return nil, fmt.Errorf("load spark: %w", err)
	}

	teaser := models.Teaser{
		SparkID:       sparkID,
		Content:       content,
		ScheduledDate: scheduledDate,
		Sent:          false,
	}
	if err := s.teasers.Create(ctx, &teaser); err != nil {
		return nil, fmt.Errorf("persist teaser: %w", err)
	}

	s.publishCreated(ctx, teaser)

	return &teaser, nil
}

// GetTeaser returns one teaser by id.
func (s *Service) GetTeaser(ctx context.Context, id uuid.UUID) (*models.Teaser, error) {
	t, err := s.teasers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeaserNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListTeasers returns teasers matching the filter with pagination.
func (s *Service) ListTeasers(ctx context.Context, filter repository.TeaserFilter, page, limit int) ([]models.Teaser, error) {
	return s.teasers.List(ctx, filter, page, limit)
}

// UpdateTeaser changes content and/or schedule of an unsent teaser.
// Sent teasers are immutable.
func (s *Service) UpdateTeaser(ctx context.Context, id uuid.UUID, upd repository.TeaserUpdate) (*models.Teaser, error) {
	current, err := s.teasers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeaserNotFound
		}
		return nil, err
	}
	if current.Sent {
		return nil, ErrTeaserAlreadySent
	}
	if upd.Content != nil && *upd.Content == "" {
		return nil, ErrEmptyContent
	}

	updated, err := s.teasers.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeaserNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteTeaser removes a teaser. This is an administrative operation;
// the dispatch path never deletes.
func (s *Service) DeleteTeaser(ctx context.Context, id uuid.UUID) error {
	if err := s.teasers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTeaserNotFound
		}
		return err
	}
	return nil
}

func (s *Service) publishCreated(ctx context.Context, t models.Teaser) {
	if s.publisher == nil {
		return
	}
	event := TeaserCreatedEvent{
		TeaserID:      t.ID,
		SparkID:       t.SparkID,
		ScheduledDate: t.ScheduledDate,
		CreatedAt:     t.CreatedAt,
	}
	if err := s.publisher.PublishTeaserCreated(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("teaser_id", t.ID.String()).Msg("failed to publish teaser.created")
	}
}
