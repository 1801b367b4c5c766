package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 * * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("every hour"))
	assert.Error(t, ValidateCronSchedule("0 0 * * * *"))
}

func TestNextRunTime(t *testing.T) {
	from := time.Date(2024, 5, 1, 10, 20, 0, 0, time.UTC)

	next, err := NextRunTime("0 * * * *", from)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), next)
}

func TestSweepScheduler_StartStop(t *testing.T) {
	s := NewSweepScheduler("0 * * * *", func(context.Context) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.NextRun())

	// second start is a no-op
	require.NoError(t, s.Start(ctx))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRun())
}

func TestSweepScheduler_InvalidSchedule(t *testing.T) {
	s := NewSweepScheduler("bogus", func(context.Context) error { return nil })

	err := s.Start(context.Background())

	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestSweepScheduler_RunNow(t *testing.T) {
	var calls int32
	s := NewSweepScheduler("0 * * * *", func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("queue unavailable")
	})

	assert.NotPanics(t, s.RunNow)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSweepScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewSweepScheduler("0 * * * *", func(context.Context) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}
