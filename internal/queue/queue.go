package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/shiftwise/punchcard/internal/gateway"
	"github.com/shiftwise/punchcard/internal/punch"
)

// ErrFlushInFlight is returned when Flush is called while another flush
// pass is already running. Callers treat it as "nothing to do", not as a
// failure.
var ErrFlushInFlight = errors.New("flush already in flight")

// Clock supplies wall-clock time for enqueue stamps and backoff gating.
type Clock interface {
	Now() time.Time
}

// Storage is the durable backing for the queue. Implemented by store.Store.
type Storage interface {
	EnqueueSubmission(ctx context.Context, sub punch.QueuedSubmission) error
	PendingSubmissions(ctx context.Context) ([]punch.QueuedSubmission, error)
	DequeueSubmission(ctx context.Context, id string) error
	MarkSubmissionFailed(ctx context.Context, id, lastError string) error
	MarkPunchSynced(ctx context.Context, id string) error
	MarkPunchFailed(ctx context.Context, id string) error
	PendingCount(ctx context.Context) (int, error)
}

// Queue is the durable, ordered, idempotent submission queue.
type Queue struct {
	storage   Storage
	submitter gateway.Submitter
	clock     Clock

	// flushMu enforces single-flight flushing.
	flushMu sync.Mutex

	// signal coalesces flush triggers (connectivity restored, new
	// enqueue) for the Run loop. Buffered size 1, same pattern as any
	// level-triggered wakeup channel.
	signal chan struct{}

	// mu guards the backoff state below.
	mu          sync.Mutex
	retry       *backoff.ExponentialBackOff
	nextAttempt time.Time
}

// New creates a Queue over durable storage and a submission endpoint.
func New(storage Storage, submitter gateway.Submitter, clock Clock) *Queue {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Second
	b.MaxInterval = 5 * time.Minute
	b.MaxElapsedTime = 0 // retry forever; punches must eventually sync
	b.Reset()

	return &Queue{
		storage:   storage,
		submitter: submitter,
		clock:     clock,
		signal:    make(chan struct{}, 1),
		retry:     b,
	}
}

// Enqueue durably persists rec for later submission. Idempotent by record
// ID: enqueueing the same punch twice is a no-op.
func (q *Queue) Enqueue(ctx context.Context, rec punch.Record) error {
	sub := punch.QueuedSubmission{
		Record:     rec,
		EnqueuedAt: q.clock.Now(),
	}
	if err := q.storage.EnqueueSubmission(ctx, sub); err != nil {
		return fmt.Errorf("enqueue punch %s: %w", rec.ID, err)
	}
	q.wake()
	return nil
}

// Flush replays pending submissions strictly in FIFO order.
//
// Success removes the item and marks the punch synced. The first failure
// records attempts and last_error, arms the backoff for the next automatic
// attempt, and ends the pass - continuing past a failed head would let
// later punches reach the server out of order.
//
// Returns the number of submissions delivered. A concurrent call returns
// ErrFlushInFlight.
func (q *Queue) Flush(ctx context.Context) (int, error) {
	if !q.flushMu.TryLock() {
		return 0, ErrFlushInFlight
	}
	defer q.flushMu.Unlock()

	subs, err := q.storage.PendingSubmissions(ctx)
	if err != nil {
		return 0, fmt.Errorf("flush: %w", err)
	}

	flushed := 0
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return flushed, err
		}
		if err := q.submitter.Submit(ctx, sub.Record); err != nil {
			// Leave the row pending; bookkeeping failures are logged,
			// not propagated, so the submit error stays primary.
			if markErr := q.storage.MarkSubmissionFailed(ctx, sub.Record.ID, err.Error()); markErr != nil {
				slog.Warn("record submission failure", "id", sub.Record.ID, "error", markErr)
			}
			if markErr := q.storage.MarkPunchFailed(ctx, sub.Record.ID); markErr != nil {
				slog.Warn("mark punch failed", "id", sub.Record.ID, "error", markErr)
			}
			q.armBackoff()
			return flushed, fmt.Errorf("flush: submit punch %s (attempt %d): %w",
				sub.Record.ID, sub.Attempts+1, err)
		}
		if err := q.storage.DequeueSubmission(ctx, sub.Record.ID); err != nil {
			return flushed, fmt.Errorf("flush: %w", err)
		}
		if err := q.storage.MarkPunchSynced(ctx, sub.Record.ID); err != nil {
			return flushed, fmt.Errorf("flush: %w", err)
		}
		flushed++
	}

	q.resetBackoff()
	return flushed, nil
}

// PendingCount returns the number of punches awaiting acknowledgment.
// This is the only externally observable queue state besides commit
// outcomes; the terminal shows it as a badge.
func (q *Queue) PendingCount(ctx context.Context) (int, error) {
	return q.storage.PendingCount(ctx)
}

// NotifyOnline signals that connectivity was restored: the backoff is
// cleared and the Run loop flushes immediately.
func (q *Queue) NotifyOnline() {
	q.resetBackoff()
	q.wake()
}

// Run flushes on a periodic poll and on wake signals until ctx is done.
// Flush attempts respect the exponential backoff armed by failures.
func (q *Queue) Run(ctx context.Context, poll time.Duration) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-q.signal:
		}

		if !q.dueForAttempt() {
			continue
		}
		n, err := q.Flush(ctx)
		switch {
		case errors.Is(err, ErrFlushInFlight) || errors.Is(err, context.Canceled):
			// Benign; the running pass or shutdown owns the queue.
		case err != nil:
			slog.Info("flush attempt failed", "delivered", n, "error", err)
		case n > 0:
			slog.Info("flush complete", "delivered", n)
		}
	}
}

// wake nudges the Run loop (non-blocking, coalescing).
func (q *Queue) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *Queue) armBackoff() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextAttempt = q.clock.Now().Add(q.retry.NextBackOff())
}

func (q *Queue) resetBackoff() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.retry.Reset()
	q.nextAttempt = time.Time{}
}

func (q *Queue) dueForAttempt() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.nextAttempt.IsZero() || !q.clock.Now().Before(q.nextAttempt)
}
