package database

import (
	"context"
	"log/slog"
	"sync"

	"priority-notes/models"
)

// QueryFunc materialises the current result set of a live query
type QueryFunc func(ctx context.Context) ([]models.Note, error)

// LiveQuery re-runs a query whenever the underlying table changes and pushes
// the fresh result to every subscriber. Nothing is queried while there are no
// subscribers. A new subscriber receives the current result once on attach.
//
// Each subscriber has its own delivery goroutine holding only the newest
// result, so a slow subscriber skips intermediate lists instead of queueing
// them and never delays the others.
type LiveQuery struct {
	query   QueryFunc
	logger  *slog.Logger
	onError func(error)

	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	stale  bool
	closed bool

	dirty  chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLiveQuery starts the refresh loop for query. onError may be nil.
func NewLiveQuery(query QueryFunc, logger *slog.Logger, onError func(error)) *LiveQuery {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	lq := &LiveQuery{
		query:   query,
		logger:  logger,
		onError: onError,
		subs:    make(map[uint64]*Subscription),
		dirty:   make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go lq.run()
	return lq
}

// Subscribe registers fn to receive the ordered result now and after every
// change. fn runs on a goroutine owned by the subscription; calls are never
// concurrent for one subscription.
func (lq *LiveQuery) Subscribe(fn func([]models.Note)) *Subscription {
	sub := &Subscription{
		live: lq,
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	lq.mu.Lock()
	if lq.closed {
		lq.mu.Unlock()
		sub.Unsubscribe()
		return sub
	}
	lq.nextID++
	sub.id = lq.nextID
	lq.subs[sub.id] = sub
	lq.mu.Unlock()

	go sub.run()
	lq.signal()
	return sub
}

// Invalidate marks the result stale. Active subscribers get a re-evaluated
// list shortly after; several invalidations in a row may collapse into one
// refresh.
func (lq *LiveQuery) Invalidate() {
	lq.mu.Lock()
	lq.stale = true
	lq.mu.Unlock()
	lq.signal()
}

// Current runs the query once without subscribing
func (lq *LiveQuery) Current(ctx context.Context) ([]models.Note, error) {
	return lq.query(ctx)
}

// Subscribers returns the number of attached subscriptions
func (lq *LiveQuery) Subscribers() int {
	lq.mu.Lock()
	defer lq.mu.Unlock()
	return len(lq.subs)
}

// Close detaches every subscriber and stops the refresh loop
func (lq *LiveQuery) Close() {
	lq.mu.Lock()
	if lq.closed {
		lq.mu.Unlock()
		return
	}
	lq.closed = true
	subs := make([]*Subscription, 0, len(lq.subs))
	for _, sub := range lq.subs {
		subs = append(subs, sub)
	}
	lq.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	lq.cancel()
	<-lq.done
}

func (lq *LiveQuery) signal() {
	select {
	case lq.dirty <- struct{}{}:
	default:
	}
}

func (lq *LiveQuery) run() {
	defer close(lq.done)

	for {
		select {
		case <-lq.ctx.Done():
			return
		case <-lq.dirty:
			lq.refresh()
		}
	}
}

// refresh queries once and hands the result to every subscriber that is
// either unprimed or affected by an invalidation
func (lq *LiveQuery) refresh() {
	lq.mu.Lock()
	stale := lq.stale
	lq.stale = false
	var targets []*Subscription
	for _, sub := range lq.subs {
		if stale || !sub.primed {
			targets = append(targets, sub)
		}
	}
	lq.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	notes, err := lq.query(lq.ctx)
	if err != nil {
		if lq.ctx.Err() != nil {
			return
		}
		lq.logger.Error("live query failed", "error", err, "subscribers", len(targets))
		if lq.onError != nil {
			lq.onError(err)
		}
		return
	}

	lq.mu.Lock()
	for _, sub := range targets {
		if _, ok := lq.subs[sub.id]; !ok {
			continue
		}
		sub.primed = true
		sub.offer(notes)
	}
	lq.mu.Unlock()
}

func (lq *LiveQuery) remove(id uint64) {
	lq.mu.Lock()
	delete(lq.subs, id)
	lq.mu.Unlock()
}

// Subscription is one attached observer of a LiveQuery
type Subscription struct {
	id     uint64
	live   *LiveQuery
	fn     func([]models.Note)
	primed bool // guarded by live.mu

	mu      sync.Mutex
	pending []models.Note
	has     bool

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

// Unsubscribe detaches the subscription. It is safe to call more than once
// and from inside the subscriber callback.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.id != 0 {
			s.live.remove(s.id)
		}
		close(s.done)
	})
}

// Done is closed once the subscription has been released
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) offer(notes []models.Note) {
	// Each subscriber gets its own copy
	list := make([]models.Note, len(notes))
	copy(list, notes)

	s.mu.Lock()
	s.pending = list
	s.has = true
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		// Unsubscribe wins over a pending delivery
		select {
		case <-s.done:
			return
		default:
		}

		s.mu.Lock()
		notes, ok := s.pending, s.has
		s.pending, s.has = nil, false
		s.mu.Unlock()

		if ok {
			s.fn(notes)
		}
	}
}
