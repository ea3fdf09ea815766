// Package dispatcher periodically delivers due teasers to spark subscribers
// and launches sparks whose launch date has passed.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ignitelabs/sparkd/internal/logger"
	"github.com/ignitelabs/sparkd/internal/mailer"
	"github.com/ignitelabs/sparkd/internal/models"
)

// ErrRunInProgress is returned when a tick overlaps a still-running one.
var ErrRunInProgress = errors.New("a dispatch run is already in progress")

// defaultFanout bounds concurrent deliveries per teaser.
const defaultFanout = 8

// TeaserStore defines the teaser queries the dispatcher needs.
type TeaserStore interface {
	FindDue(ctx context.Context, now time.Time) ([]models.Teaser, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
}

// SparkStore defines the spark queries the dispatcher needs.
type SparkStore interface {
	GetWithSubscribers(ctx context.Context, id uuid.UUID) (*models.Spark, error)
	FindLaunchDue(ctx context.Context, now time.Time) ([]models.Spark, error)
	MarkLaunched(ctx context.Context, id uuid.UUID) error
}

// TeaserSentEvent is published after a teaser's delivery attempt completes.
type TeaserSentEvent struct {
	TeaserID    uuid.UUID `json:"teaser_id"`
	SparkID     uuid.UUID `json:"spark_id"`
	Subscribers int       `json:"subscribers"`
	Failed      int       `json:"failed"`
	SentAt      time.Time `json:"sent_at"`
}

// EventPublisher publishes dispatch lifecycle events.
type EventPublisher interface {
	PublishTeaserSent(ctx context.Context, event TeaserSentEvent) error
}

// RunResult contains dispatch statistics for one tick.
type RunResult struct {
	Due              int // teasers found due
	Dispatched       int // teasers delivered and marked sent
	Skipped          int // teasers left due (spark load failed)
	Delivered        int // individual mails delivered
	DeliveryFailures int // individual mails failed, non-fatal
	Launched         int // sparks flipped to launched
}

// Service is the dispatch job. Run is invoked on a fixed cadence by the
// cron runner; correctness does not depend on the exact timing, only on
// "eventually, after due time, and not before".
type Service struct {
	teasers   TeaserStore
	sparks    SparkStore
	sender    mailer.Sender
	publisher EventPublisher
	log       *logger.Logger
	fanout    int

	// now is swappable in tests
	now func() time.Time

	mu      sync.Mutex
	running bool
}

// NewService creates a new dispatch service. publisher may be nil.
func NewService(
	teasers TeaserStore,
	sparks SparkStore,
	sender mailer.Sender,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		teasers:   teasers,
		sparks:    sparks,
		sender:    sender,
		publisher: publisher,
		log:       log,
		fanout:    defaultFanout,
		now:       time.Now,
	}
}

// Run executes one dispatch tick: deliver all due teasers, then launch
// due sparks. Overlapping invocations are rejected with ErrRunInProgress
// so two ticks never race on the same due set.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	now := s.now()
	result := &RunResult{}

	due, err := s.teasers.FindDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("find due teasers: %w", err)
	}
	result.Due = len(due)

	for i := range due {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		s.dispatchTeaser(ctx, &due[i], result)
	}

	if err := s.sweepLaunches(ctx, now, result); err != nil {
		s.log.Error().Err(err).Msg("launch sweep failed")
	}

	if result.Due > 0 || result.Launched > 0 {
		s.log.Info().
			Int("due", result.Due).
			Int("dispatched", result.Dispatched).
			Int("delivered", result.Delivered).
			Int("delivery_failures", result.DeliveryFailures).
			Int("launched", result.Launched).
			Msg("dispatch run complete")
	}

	return result, nil
}

// dispatchTeaser delivers one teaser to the spark's current subscriber
// set and marks it sent. The subscriber set is read live at send time so
// late subscribers still get teasers that come due after they joined.
func (s *Service) dispatchTeaser(ctx context.Context, teaser *models.Teaser, result *RunResult) {
	spark, err := s.sparks.GetWithSubscribers(ctx, teaser.SparkID)
	if err != nil {
		// the teaser stays due and is retried next tick
		s.log.Warn().Err(err).
			Str("teaser_id", teaser.ID.String()).
			Str("spark_id", teaser.SparkID.String()).
			Msg("failed to load spark for due teaser, skipping")
		result.Skipped++
		return
	}

	delivered, failed := s.fanOut(ctx, spark, teaser)
	result.Delivered += delivered
	result.DeliveryFailures += failed

	// mark sent only after the full fan-out attempt: a crash before this
	// point repeats the send next tick (at-least-once), while marking
	// per-subscriber would risk a duplicate storm
	if err := s.markSent(ctx, teaser.ID); err != nil {
		s.log.Error().Err(err).
			Str("teaser_id", teaser.ID.String()).
			Msg("failed to mark teaser sent, duplicates possible next tick")
		return
	}
	result.Dispatched++

	s.publishSent(ctx, TeaserSentEvent{
		TeaserID:    teaser.ID,
		SparkID:     teaser.SparkID,
		Subscribers: len(spark.Subscribers),
		Failed:      failed,
		SentAt:      s.now(),
	})
}

// fanOut attempts delivery to every subscriber. Individual failures are
// logged and counted, never escalated; no subscriber blocks another.
func (s *Service) fanOut(ctx context.Context, spark *models.Spark, teaser *models.Teaser) (delivered, failed int) {
	var failures atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)

	for _, sub := range spark.Subscribers {
		sub := sub
		g.Go(func() error {
			msg := mailer.TeaserMessage(sub.Email, spark.Title, teaser.Content)
			if err := s.sender.Send(gctx, msg); err != nil {
				failures.Add(1)
				s.log.Warn().Err(err).
					Str("teaser_id", teaser.ID.String()).
					Str("recipient", sub.Email).
					Msg("teaser delivery failed")
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	failed = int(failures.Load())
	return len(spark.Subscribers) - failed, failed
}

// markSent retries once: a failure here is the one path that produces
// duplicate sends on the next tick.
func (s *Service) markSent(ctx context.Context, id uuid.UUID) error {
	if err := s.teasers.MarkSent(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("teaser_id", id.String()).Msg("mark sent failed, retrying")
		return s.teasers.MarkSent(ctx, id)
	}
	return nil
}

// sweepLaunches flips due sparks to launched and mails subscribers the
// ignition notice. Same posture as teasers: best-effort fan-out first,
// flag update last.
func (s *Service) sweepLaunches(ctx context.Context, now time.Time, result *RunResult) error {
	dueSparks, err := s.sparks.FindLaunchDue(ctx, now)
	if err != nil {
		return fmt.Errorf("find launch-due sparks: %w", err)
	}

	for i := range dueSparks {
		if err := ctx.Err(); err != nil {
			return err
		}

		spark, err := s.sparks.GetWithSubscribers(ctx, dueSparks[i].ID)
		if err != nil {
			s.log.Warn().Err(err).Str("spark_id", dueSparks[i].ID.String()).Msg("failed to load launching spark")
			continue
		}

		var failures atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.fanout)
		for _, sub := range spark.Subscribers {
			sub := sub
			g.Go(func() error {
				msg := mailer.IgnitionMessage(sub.Email, spark.Title, spark.ContentURL)
				if err := s.sender.Send(gctx, msg); err != nil {
					failures.Add(1)
					s.log.Warn().Err(err).
						Str("spark_id", spark.ID.String()).
						Str("recipient", sub.Email).
						Msg("ignition delivery failed")
				}
				return nil
			})
		}
		_ = g.Wait()

		result.Delivered += len(spark.Subscribers) - int(failures.Load())
		result.DeliveryFailures += int(failures.Load())

		if err := s.sparks.MarkLaunched(ctx, spark.ID); err != nil {
			s.log.Error().Err(err).Str("spark_id", spark.ID.String()).Msg("failed to mark spark launched")
			continue
		}
		result.Launched++
	}

	return nil
}

func (s *Service) publishSent(ctx context.Context, event TeaserSentEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTeaserSent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("teaser_id", event.TeaserID.String()).Msg("failed to publish teaser.sent")
	}
}
