package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrStopped is returned by Flush once the worker has been stopped
var ErrStopped = errors.New("worker stopped")

// Task is one unit of background work. The context is never cancelled:
// submitted work always runs to completion.
type Task func(ctx context.Context) error

// FaultHandler receives every task failure, including recovered panics
type FaultHandler func(task string, err error)

type job struct {
	name    string
	task    Task
	barrier chan struct{}
}

// Worker runs submitted tasks one at a time, in submission order, on a single
// background goroutine. Submit never blocks; the queue grows as needed.
// A failed task is logged and reported, never retried.
type Worker struct {
	logger  *slog.Logger
	onFault FaultHandler

	mu       sync.Mutex
	queue    []job
	running  bool
	stopping bool
	stopped  bool
	notify   chan struct{}
	done     chan struct{}
}

// New creates a worker. onFault may be nil.
func New(logger *slog.Logger, onFault FaultHandler) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		logger:  logger,
		onFault: onFault,
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start begins processing the queue. Tasks submitted before Start wait for it.
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running || w.stopped {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Debug("background worker started")

	go w.run()
}

// Stop lets the worker finish everything already queued, then returns.
// Later submissions are dropped.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	wasRunning := w.running
	w.stopping = true
	pending := len(w.queue)
	w.mu.Unlock()

	if !wasRunning {
		if pending > 0 {
			w.logger.Warn("worker stopped before start, dropping tasks", "pending", pending)
		}
		close(w.done)
		return
	}

	w.logger.Debug("stopping background worker", "pending", pending)
	w.wake()
	<-w.done
	w.logger.Debug("background worker stopped")
}

// Submit queues task and returns immediately
func (w *Worker) Submit(name string, task Task) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		w.logger.Warn("worker stopped, dropping task", "task", name)
		return
	}
	w.queue = append(w.queue, job{name: name, task: task})
	w.mu.Unlock()

	w.wake()
}

// Flush waits until every task submitted before the call has run
func (w *Worker) Flush(ctx context.Context) error {
	barrier := make(chan struct{})

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrStopped
	}
	w.queue = append(w.queue, job{name: "flush", barrier: barrier})
	w.mu.Unlock()

	w.wake()

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of queued tasks not yet started
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

func (w *Worker) wake() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// run is the main worker loop
func (w *Worker) run() {
	defer close(w.done)

	for {
		w.mu.Lock()
		if len(w.queue) == 0 {
			if w.stopping {
				w.mu.Unlock()
				return
			}
			w.mu.Unlock()
			<-w.notify
			continue
		}
		next := w.queue[0]
		w.queue[0] = job{}
		w.queue = w.queue[1:]
		w.mu.Unlock()

		if next.barrier != nil {
			close(next.barrier)
			continue
		}
		w.execute(next)
	}
}

func (w *Worker) execute(j job) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task %s panicked: %v", j.name, r)
			}
		}()
		return j.task(context.Background())
	}()

	if err == nil {
		return
	}

	w.logger.Error("background task failed", "task", j.name, "error", err)
	if w.onFault != nil {
		w.onFault(j.name, err)
	}
}
