// Package watchdog turns the absence of an expected signal into an explicit event.
//
// Some engines never say that they are unsupported; they simply stay silent. A Watchdog
// armed when loading starts fires once if nobody disarms it in time.
package watchdog

import (
	"errors"
	"time"

	"github.com/tvxlabs/mediabridge/eventloop"
)

// DefaultTimeout is the readiness window used when none is configured.
const DefaultTimeout = 30 * time.Second

// ErrSpent is returned by Arm after the watchdog was disarmed or fired.
var ErrSpent = errors.New("watchdog already spent")

// Handle is a read-only view of the watchdog.
type Handle struct {
	Deadline time.Time
	Armed    bool
}

// Watchdog is a cancellable one-shot timer bound to an event loop. It is not safe for
// concurrent use; call it from tasks running on its loop.
type Watchdog struct {
	loop     *eventloop.Loop
	timer    *eventloop.Timer
	deadline time.Time
	spent    bool
}

// New creates a disarmed watchdog.
func New(loop *eventloop.Loop) *Watchdog {
	return &Watchdog{loop: loop}
}

// Arm starts the timer. Arming an armed watchdog replaces the pending timer, so only the
// most recent onTimeout can fire.
func (w *Watchdog) Arm(timeout time.Duration, onTimeout func()) error {
	if w.spent {
		return ErrSpent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	w.timer.Stop()

	var timer *eventloop.Timer
	timer = w.loop.After(timeout, func() {
		if w.timer != timer {
			return
		}
		w.timer = nil
		w.spent = true
		onTimeout()
	})

	w.timer = timer
	w.deadline = w.loop.Now().Add(timeout)
	return nil
}

// Disarm cancels the pending timer. It is idempotent. Once disarmed the watchdog stays
// spent until Reset.
func (w *Watchdog) Disarm() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
		w.spent = true
	}
}

// Reset disarms and makes the watchdog armable again.
func (w *Watchdog) Reset() {
	w.timer.Stop()
	w.timer = nil
	w.spent = false
	w.deadline = time.Time{}
}

// Armed reports whether a timer is pending.
func (w *Watchdog) Armed() bool {
	return w.timer != nil
}

// Spent reports whether the watchdog fired or was disarmed since the last Reset.
func (w *Watchdog) Spent() bool {
	return w.spent
}

func (w *Watchdog) Handle() Handle {
	return Handle{Deadline: w.deadline, Armed: w.Armed()}
}
