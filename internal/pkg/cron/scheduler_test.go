package cron

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func januaryOnly(t time.Time) bool {
	return t.Month() == time.January
}

func TestRunOnceHonorsGate(t *testing.T) {
	s := NewScheduler(slog.Default())
	s.now = func() time.Time { return time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC) }

	ungated, gated := 0, 0
	s.AddJob("always", time.Hour, func(_ context.Context) error {
		ungated++
		return nil
	})
	s.AddGatedJob("january-sweep", time.Hour, januaryOnly, func(_ context.Context) error {
		gated++
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, 1, ungated)
	assert.Equal(t, 0, gated)

	s.now = func() time.Time { return time.Date(2027, 1, 2, 2, 0, 0, 0, time.UTC) }
	s.RunOnce(context.Background())
	assert.Equal(t, 2, ungated)
	assert.Equal(t, 1, gated)
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(slog.Default())

	ran := make(chan struct{}, 4)
	s.AddJob("startup", time.Hour, func(_ context.Context) error {
		ran <- struct{}{}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
