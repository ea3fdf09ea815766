package teaser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSchedule_EvenSpacing(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	launch := now.Add(60 * time.Minute)

	slots, err := ComputeSchedule(3, now, launch)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, now.Add(20*time.Minute), slots[0])
	assert.Equal(t, now.Add(40*time.Minute), slots[1])
	assert.Equal(t, now.Add(60*time.Minute), slots[2])
}

func TestComputeSchedule_Properties(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		count  int
		window time.Duration
	}{
		{"single slot", 1, time.Hour},
		{"two slots", 2, 45 * time.Minute},
		{"many slots", 12, 7 * 24 * time.Hour},
		{"window not divisible by count", 7, time.Hour},
		{"tiny window", 3, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			launch := now.Add(tt.window)
			slots, err := ComputeSchedule(tt.count, now, launch)
			require.NoError(t, err)
			require.Len(t, slots, tt.count)

			for i, slot := range slots {
				assert.True(t, slot.After(now), "slot %d must be after now", i)
				assert.False(t, slot.After(launch), "slot %d must not pass the launch date", i)
				if i > 0 {
					assert.True(t, slot.After(slots[i-1]), "slots must be strictly increasing")
				}
			}

			// equal spacing to within rounding
			interval := tt.window / time.Duration(tt.count)
			for i, slot := range slots {
				assert.Equal(t, now.Add(time.Duration(i+1)*interval), slot)
			}
		})
	}
}

func TestComputeSchedule_Deterministic(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	launch := now.Add(90 * time.Minute)

	first, err := ComputeSchedule(5, now, launch)
	require.NoError(t, err)
	second, err := ComputeSchedule(5, now, launch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeSchedule_WindowNotInFuture(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	for _, launch := range []time.Time{now, now.Add(-time.Minute), now.Add(-24 * time.Hour)} {
		_, err := ComputeSchedule(2, now, launch)
		assert.ErrorIs(t, err, ErrInvalidScheduleWindow)
	}
}

func TestComputeSchedule_InvalidCount(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	launch := now.Add(time.Hour)

	for _, count := range []int{0, -1, -100} {
		_, err := ComputeSchedule(count, now, launch)
		assert.ErrorIs(t, err, ErrInvalidTeaserCount)
	}
}
