// Package spark manages spark subscriptions.
package spark

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignitelabs/sparkd/internal/logger"
	"github.com/ignitelabs/sparkd/internal/mailer"
	"github.com/ignitelabs/sparkd/internal/models"
	"github.com/ignitelabs/sparkd/internal/repository"
)

var (
	ErrSparkNotFound = errors.New("spark not found")
	ErrUserNotFound  = errors.New("user not found")
)

// SparkStore defines the spark operations the subscription flow needs.
type SparkStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Spark, error)
	AddSubscriber(ctx context.Context, sparkID, userID uuid.UUID) error
	RemoveSubscriber(ctx context.Context, sparkID, userID uuid.UUID) error
}

// UserStore defines the user lookups the subscription flow needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service handles subscribing users to sparks. Confirmation mails are
// best-effort: the membership change is the operation, the mail is not.
type Service struct {
	sparks SparkStore
	users  UserStore
	sender mailer.Sender
	log    *logger.Logger
}

// NewService creates a new subscription service. sender may be nil.
func NewService(sparks SparkStore, users UserStore, sender mailer.Sender, log *logger.Logger) *Service {
	return &Service{
		sparks: sparks,
		users:  users,
		sender: sender,
		log:    log,
	}
}

// Subscribe adds the user to the spark's subscriber set and mails a
// confirmation. The user starts receiving teasers that come due from now on.
func (s *Service) Subscribe(ctx context.Context, sparkID, userID uuid.UUID) error {
	spark, user, err := s.load(ctx, sparkID, userID)
	if err != nil {
		return err
	}

	if err := s.sparks.AddSubscriber(ctx, sparkID, userID); err != nil {
		return fmt.Errorf("add subscriber: %w", err)
	}

	s.notify(ctx, mailer.SubscriptionMessage(user.Email, spark.Title), sparkID, userID)

	s.log.Info().
		Str("spark_id", sparkID.String()).
		Str("user_id", userID.String()).
		Msg("user subscribed to spark")

	return nil
}

// Unsubscribe removes the user from the spark's subscriber set and mails
// a farewell notice.
func (s *Service) Unsubscribe(ctx context.Context, sparkID, userID uuid.UUID) error {
	spark, user, err := s.load(ctx, sparkID, userID)
	if err != nil {
		return err
	}

	if err := s.sparks.RemoveSubscriber(ctx, sparkID, userID); err != nil {
		return fmt.Errorf("remove subscriber: %w", err)
	}

	s.notify(ctx, mailer.UnsubscriptionMessage(user.Email, spark.Title), sparkID, userID)

	s.log.Info().
		Str("spark_id", sparkID.String()).
		Str("user_id", userID.String()).
		Msg("user unsubscribed from spark")

	return nil
}

func (s *Service) load(ctx context.Context, sparkID, userID uuid.UUID) (*models.Spark, *models.User, error) {
	spark, err := s.sparks.GetByID(ctx, sparkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrSparkNotFound
		}
		return nil, nil, fmt.Errorf("load spark: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	return spark, user, nil
}

func (s *Service) notify(ctx context.Context, msg mailer.Message, sparkID, userID uuid.UUID) {
	if s.sender == nil {
		return
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Warn().Err(err).
			Str("spark_id", sparkID.String()).
			Str("user_id", userID.String()).
			Msg("subscription mail failed")
	}
}
