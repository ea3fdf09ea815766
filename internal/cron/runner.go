// Package cron drives the dispatch job on a fixed cadence.
// The runner only owns timing; due/once semantics live in the dispatcher.
package cron

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/ignitelabs/sparkd/internal/logger"
)

// Runner wraps robfig/cron with standard 5-field expressions
// (minute, hour, dom, month, dow).
type Runner struct {
	c   *cron.Cron
	log *logger.Logger
}

// NewRunner creates a stopped runner; call Start after scheduling.
func NewRunner(log *logger.Logger) *Runner {
	return &Runner{
		c:   cron.New(),
		log: log,
	}
}

// Schedule registers fn under the given cron expression. The function
// receives a background context: ticks must outlive any request scope.
func (r *Runner) Schedule(expr, name string, fn func(ctx context.Context) error) error {
	_, err := r.c.AddFunc(expr, func() {
		if err := fn(context.Background()); err != nil {
			r.log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
		}
	})
	return err
}

// Start begins firing scheduled jobs.
func (r *Runner) Start() {
	r.c.Start()
}

// Stop stops the scheduler and waits for in-flight jobs to finish.
func (r *Runner) Stop() {
	<-r.c.Stop().Done()
}

// Entries returns the number of scheduled jobs.
func (r *Runner) Entries() int {
	return len(r.c.Entries())
}
