package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerRunsTasksInOrder(t *testing.T) {
	w := New(nil, nil)
	w.Start()
	defer w.Stop()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 50; i++ {
		i := i
		w.Submit("append", func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}

	require.NoError(t, w.Flush(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 50)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestWorkerSubmitDoesNotBlock(t *testing.T) {
	w := New(nil, nil)
	w.Start()
	defer w.Stop()

	release := make(chan struct{})
	w.Submit("slow", func(ctx context.Context) error {
		<-release
		return nil
	})

	submitted := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			w.Submit("noop", func(ctx context.Context) error { return nil })
		}
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked behind a slow task")
	}
	assert.GreaterOrEqual(t, w.Pending(), 1000)

	close(release)
	require.NoError(t, w.Flush(context.Background()))
	assert.Zero(t, w.Pending())
}

func TestWorkerReportsFaultsAndKeepsRunning(t *testing.T) {
	type fault struct {
		task string
		err  error
	}
	var mu sync.Mutex
	var faults []fault

	w := New(nil, func(task string, err error) {
		mu.Lock()
		faults = append(faults, fault{task, err})
		mu.Unlock()
	})
	w.Start()
	defer w.Stop()

	storageErr := errors.New("database is locked")
	ran := false

	w.Submit("insert", func(ctx context.Context) error { return storageErr })
	w.Submit("update", func(ctx context.Context) error { panic("boom") })
	w.Submit("delete", func(ctx context.Context) error { ran = true; return nil })

	require.NoError(t, w.Flush(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, faults, 2)
	assert.Equal(t, "insert", faults[0].task)
	assert.ErrorIs(t, faults[0].err, storageErr)
	assert.Equal(t, "update", faults[1].task)
	assert.Contains(t, faults[1].err.Error(), "panicked: boom")
	assert.True(t, ran)
}

func TestWorkerStopDrainsQueue(t *testing.T) {
	w := New(nil, nil)

	count := 0
	for i := 0; i < 10; i++ {
		w.Submit("count", func(ctx context.Context) error {
			count++
			return nil
		})
	}

	w.Start()
	w.Stop()
	assert.Equal(t, 10, count)

	// Dropped after stop
	w.Submit("late", func(ctx context.Context) error {
		count++
		return nil
	})
	assert.Equal(t, 10, count)
	assert.ErrorIs(t, w.Flush(context.Background()), ErrStopped)

	w.Stop()
}

func TestWorkerFlushHonoursContext(t *testing.T) {
	w := New(nil, nil)
	w.Start()
	defer w.Stop()

	release := make(chan struct{})
	defer close(release)
	w.Submit("blocked", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Flush(ctx), context.DeadlineExceeded)
}
