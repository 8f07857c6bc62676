// Package eventloop provides the single-threaded scheduler every adapter runs on.
//
// Native engine events, timer expirations and host commands are all tasks in one FIFO
// queue. Exactly one task runs at a time, so code running on the loop needs no locking and
// the order between a late event and a timeout is simply the order they were enqueued in.
package eventloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tvxlabs/mediabridge/log"
)

// ErrClosed is returned when posting to a loop that has been closed.
var ErrClosed = errors.New("event loop closed")

// Loop is a FIFO task queue drained by a single consumer.
type Loop struct {
	clock Clock

	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock replaces the wall clock, typically with a ManualClock in tests.
func WithClock(c Clock) Option {
	return func(l *Loop) {
		l.clock = c
	}
}

// New creates an empty loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		clock: SystemClock{},
		wake:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the loop's current time.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Post enqueues fn. It is safe to call from any goroutine and reports false once the loop
// is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Close rejects further tasks. Tasks already queued are dropped.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.queue = nil
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	batch := l.queue
	l.queue = nil
	return batch
}

// RunPending runs every queued task, including tasks enqueued while running, and returns
// how many ran. It must not be called concurrently with Run.
func (l *Loop) RunPending() int {
	ran := 0
	for {
		batch := l.take()
		if len(batch) == 0 {
			return ran
		}
		for _, task := range batch {
			l.exec(task)
			ran++
		}
	}
}

// RunUntil drains the queue until cond holds, waiting for new tasks in between.
// It reports whether cond was satisfied before ctx ended.
func (l *Loop) RunUntil(ctx context.Context, cond func() bool) bool {
	for {
		l.RunPending()
		if cond() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-l.wake:
		}
	}
}

// Run consumes tasks until ctx is done or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()

		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return ErrClosed
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Call runs fn on the loop and waits for it to finish. It must not be called from a task
// running on the loop itself.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrClosed
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("event loop task panicked: %v", r)
		}
	}()
	task()
}

// Timer is a one-shot task scheduled on a loop.
type Timer struct {
	stopper Stopper
	stopped atomic.Bool
}

// After schedules fn to be enqueued on the loop once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) *Timer {
	t := &Timer{}
	t.stopper = l.clock.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

// Stop cancels the timer. A timer that already expired but whose task has not run yet is
// suppressed as well. Stop reports whether it prevented fn from running.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	if !t.stopped.CompareAndSwap(false, true) {
		return false
	}
	if t.stopper != nil {
		t.stopper.Stop()
	}
	return true
}
