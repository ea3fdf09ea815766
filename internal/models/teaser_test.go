package models

import (
	"testing"
	"time"
)

func TestTeaser_IsDue(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		scheduled time.Time
		sent      bool
		want      bool
	}{
		{
			name:      "scheduled in the past, unsent",
			scheduled: now.Add(-time.Minute),
			sent:      false,
			want:      true,
		},
		{
			name:      "scheduled exactly now, unsent",
			scheduled: now,
			sent:      false,
			want:      true,
		},
		{
			name:      "scheduled in the future",
			scheduled: now.Add(time.Minute),
			sent:      false,
			want:      false,
		},
		{
			name:      "already sent",
			scheduled: now.Add(-time.Hour),
			sent:      true,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teaser := Teaser{ScheduledDate: tt.scheduled, Sent: tt.sent}
			if got := teaser.IsDue(now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpark_LaunchDue(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	s := Spark{LaunchDate: now.Add(-time.Minute)}
	if !s.LaunchDue(now) {
		t.Error("LaunchDue() = false for past launch date, want true")
	}

	s.IsLaunched = true
	if s.LaunchDue(now) {
		t.Error("LaunchDue() = true for already launched spark, want false")
	}

	s = Spark{LaunchDate: now.Add(time.Hour)}
	if s.LaunchDue(now) {
		t.Error("LaunchDue() = true for future launch date, want false")
	}
}
