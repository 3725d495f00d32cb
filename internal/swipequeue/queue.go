// Package swipequeue persists swipe decisions without ever blocking the
// caller. Decisions are sent in submission order, coalesced per target
// (last direction wins while queued), retried with bounded backoff and
// dropped with a log entry once retries are exhausted. The user already
// saw the swipe complete, so a dropped write is never surfaced as an
// error and never rolled back visually.
package swipequeue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swipenest/swipenest/internal/entity"
	"github.com/swipenest/swipenest/pkg/logger"
)

// Writer is the single component allowed to write swipe decisions to
// the backend. RecordSwipe must be idempotent under retry.
type Writer interface {
	RecordSwipe(ctx context.Context, decision entity.SwipeDecision) error
}

type Config struct {
	MaxAttempts int
	BaseBackoff time.Duration

	// DrainTimeout bounds how long the worker keeps delivering queued
	// decisions after its context is cancelled.
	DrainTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		BaseBackoff:  50 * time.Millisecond,
		DrainTimeout: 5 * time.Second,
	}
}

type Queue struct {
	writer Writer
	log    *logger.Logger
	cfg    Config
	userID uint

	mu       sync.Mutex
	empty    *sync.Cond
	order    []string
	pending  map[string]entity.SwipeDecision
	inflight string

	wake chan struct{}
}

func New(writer Writer, log *logger.Logger, userID uint, cfg Config) *Queue {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = DefaultConfig().BaseBackoff
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = DefaultConfig().DrainTimeout
	}
	q := &Queue{
		writer:  writer,
		log:     log.With("component", "swipequeue", "user_id", userID),
		cfg:     cfg,
		userID:  userID,
		pending: make(map[string]entity.SwipeDecision),
		wake:    make(chan struct{}, 1),
	}
	q.empty = sync.NewCond(&q.mu)
	return q
}

// Start launches the single worker goroutine. When ctx is cancelled
// the worker drains what is still queued, bounded by DrainTimeout,
// before exiting. The cancelled context is not used for the remaining
// writes, so a shutdown flush still reaches the backend.
func (q *Queue) Start(ctx context.Context) {
	go q.run(ctx)
}

// Enqueue registers a decision and returns immediately. A decision for
// a target that is still queued is coalesced: the newest direction
// replaces the old one and only one write is sent. A decision for a
// target that is currently in flight is queued as a follow-up, so
// per-target submission order is preserved.
func (q *Queue) Enqueue(targetID string, targetType entity.TargetType, direction entity.Direction) {
	decision := entity.SwipeDecision{
		ID:         uuid.NewString(),
		UserID:     q.userID,
		TargetID:   targetID,
		TargetType: targetType,
		Direction:  direction,
		CreatedAt:  time.Now(),
	}

	q.mu.Lock()
	if _, queued := q.pending[targetID]; !queued {
		q.order = append(q.order, targetID)
	}
	q.pending[targetID] = decision
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every queued decision has been sent or dropped.
// Test hook; production callers never wait on the queue.
func (q *Queue) Flush() {
	q.mu.Lock()
	for len(q.pending) > 0 || q.inflight != "" {
		q.empty.Wait()
	}
	q.mu.Unlock()
}

func (q *Queue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			q.drain()
			return
		case <-q.wake:
		}

		for ctx.Err() == nil {
			decision, ok := q.next()
			if !ok {
				break
			}
			if !q.send(ctx, decision) {
				q.requeue(decision)
				break
			}
			q.finish()
		}
	}
}

// drain delivers whatever is still queued after the run context is
// cancelled. It writes with its own context so the backend calls do
// not fail on the cancellation that triggered the drain.
func (q *Queue) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), q.cfg.DrainTimeout)
	defer cancel()

	for ctx.Err() == nil {
		decision, ok := q.next()
		if !ok {
			return
		}
		if !q.send(ctx, decision) {
			q.requeue(decision)
			break
		}
		q.finish()
	}

	q.mu.Lock()
	dropped := len(q.pending)
	q.order = nil
	q.pending = make(map[string]entity.SwipeDecision)
	q.inflight = ""
	q.empty.Broadcast()
	q.mu.Unlock()
	if dropped > 0 {
		q.log.Warn("queue stopped with undelivered decisions", "dropped", dropped)
	}
}

func (q *Queue) next() (entity.SwipeDecision, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.order) == 0 {
		return entity.SwipeDecision{}, false
	}
	id := q.order[0]
	q.order = q.order[1:]
	decision := q.pending[id]
	delete(q.pending, id)
	q.inflight = id
	return decision, true
}

func (q *Queue) finish() {
	q.mu.Lock()
	q.inflight = ""
	if len(q.pending) == 0 {
		q.empty.Broadcast()
	}
	q.mu.Unlock()
}

// requeue puts an unsettled decision back at the head of the line so
// the drain can retry it on a live context. A newer decision for the
// same target enqueued in the meantime takes precedence.
func (q *Queue) requeue(decision entity.SwipeDecision) {
	q.mu.Lock()
	if _, queued := q.pending[decision.TargetID]; !queued {
		q.order = append([]string{decision.TargetID}, q.order...)
		q.pending[decision.TargetID] = decision
	}
	q.inflight = ""
	q.mu.Unlock()
}

// send reports whether the decision was settled: delivered, or dropped
// after exhausting retries. It returns false only when ctx was
// cancelled before either outcome, leaving the decision owed.
func (q *Queue) send(ctx context.Context, decision entity.SwipeDecision) bool {
	backoff := q.cfg.BaseBackoff
	for attempt := 1; attempt <= q.cfg.MaxAttempts; attempt++ {
		err := q.writer.RecordSwipe(ctx, decision)
		if err == nil {
			return true
		}
		if attempt == q.cfg.MaxAttempts {
			q.log.Warn("dropping swipe decision after retries",
				"target_id", decision.TargetID,
				"direction", decision.Direction.String(),
				"attempts", attempt,
				"error", err)
			return true
		}
		q.log.Debug("swipe write failed, retrying",
			"target_id", decision.TargetID,
			"attempt", attempt,
			"error", err)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return true
}
