package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadecampers/nomade-api/pkg/logger"
)

func init() {
	logger.Setup("test")
}

func TestEnqueueAsync_RunsJob(t *testing.T) {
	w := NewWorker(2)
	done := make(chan struct{})

	w.EnqueueAsync(func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job never ran")
	}

	w.Shutdown()
	stats := w.GetStats()
	assert.Equal(t, int64(1), stats.CompletedJobs)
	assert.Equal(t, int64(0), stats.FailedJobs)
}

func TestEnqueueAsync_CountsFailures(t *testing.T) {
	w := NewWorker(2)

	w.EnqueueAsync(func(ctx context.Context) error {
		return errors.New("boom")
	})
	w.EnqueueAsync(func(ctx context.Context) error {
		panic("peor")
	})

	w.Shutdown()
	stats := w.GetStats()
	assert.Equal(t, int64(2), stats.CompletedJobs)
	assert.Equal(t, int64(2), stats.FailedJobs)
}

func TestScheduleEvery_TicksUntilShutdown(t *testing.T) {
	w := NewWorker(2)
	ticked := make(chan struct{}, 1)

	w.ScheduleEvery(10*time.Millisecond, func(ctx context.Context) error {
		select {
		case ticked <- struct{}{}:
		default:
		}
		return nil
	})

	select {
	case <-ticked:
	case <-time.After(time.Second):
		t.Fatal("scheduled job never ran")
	}

	w.Shutdown()
}

func TestNewWorker_ConcurrencyFloor(t *testing.T) {
	w := NewWorker(1)
	require.Equal(t, 10, w.GetStats().MaxConcurrent)
	w.Shutdown()
}
