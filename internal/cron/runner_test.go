package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitelabs/sparkd/internal/logger"
)

func TestRunner_Schedule(t *testing.T) {
	r := NewRunner(logger.Get())

	err := r.Schedule("* * * * *", "dispatch", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, r.Entries())
}

func TestRunner_Schedule_InvalidExpression(t *testing.T) {
	r := NewRunner(logger.Get())

	err := r.Schedule("not a cron expr", "dispatch", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Zero(t, r.Entries())
}

func TestRunner_StartStop(t *testing.T) {
	r := NewRunner(logger.Get())
	require.NoError(t, r.Schedule("* * * * *", "noop", func(context.Context) error { return nil }))

	r.Start()
	r.Stop() // must not hang with no in-flight jobs
}
