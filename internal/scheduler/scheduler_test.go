package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RejectsInvalidSpec(t *testing.T) {
	s := New(time.UTC)

	_, err := s.Schedule("broken", "every hour please", func(context.Context) error { return nil })

	assert.Error(t, err)
}

func TestScheduler_SkipsTicksWhileJobIsRunning(t *testing.T) {
	// given
	s := New(time.UTC)
	var runs, concurrent, maxConcurrent atomic.Int32
	_, err := s.Schedule("slow", "@every 1s", func(ctx context.Context) error {
		runs.Add(1)
		current := concurrent.Add(1)
		defer concurrent.Add(-1)
		if current > maxConcurrent.Load() {
			maxConcurrent.Store(current)
		}
		select {
		case <-time.After(2500 * time.Millisecond):
		case <-ctx.Done():
		}
		return nil
	})
	require.NoError(t, err)

	// when
	s.Start()
	time.Sleep(4 * time.Second)
	s.Stop()

	// then
	assert.Equal(t, int32(1), maxConcurrent.Load())
	assert.LessOrEqual(t, runs.Load(), int32(2))
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}

func TestScheduler_StopCancelsJobContext(t *testing.T) {
	// given
	s := New(time.UTC)
	cancelled := make(chan struct{})
	var once sync.Once
	_, err := s.Schedule("waiting", "@every 1s", func(ctx context.Context) error {
		<-ctx.Done()
		once.Do(func() { close(cancelled) })
		return ctx.Err()
	})
	require.NoError(t, err)
	s.Start()
	time.Sleep(1500 * time.Millisecond)

	// when
	s.Stop()

	// then
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("job context was not cancelled")
	}
}
