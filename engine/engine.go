// Package engine describes the underlying playback engines an adapter can drive: the
// Engine contract every binding implements and the Profile constants that tell the adapter
// how a particular engine talks (event names, error tables, load shape, capabilities).
package engine

import (
	"context"

	"github.com/tvxlabs/mediabridge/media"
)

// Event is a native engine event. Payload is engine specific: an error payload for error
// events, a media.Size for quality changes, nil otherwise.
type Event struct {
	Name    string
	Payload any
}

// Listener receives native events. Engines may invoke listeners from any goroutine.
type Listener func(Event)

// Engine is the public surface of an underlying playback engine.
//
// Every method except Load must return promptly. Load may block until the engine accepted
// or rejected the source and must honor ctx cancellation. Volume is on the engine scale
// 0.0-1.0.
type Engine interface {
	// Supported reports whether the engine can run on this platform at all.
	Supported() bool

	// Attach allocates the engine against a mount point (element id, window id...).
	Attach(mount string) error

	// Configure applies static configuration. Values are passed through unchanged.
	Configure(cfg media.Config) error

	// On subscribes to a native event and returns a function removing the subscription.
	On(name string, fn Listener) (off func())

	Load(ctx context.Context, source string) error

	Play() error
	Pause() error
	Paused() bool

	Duration() float64
	Position() float64
	Seek(seconds float64) error

	Volume() float64
	SetVolume(v float64) error
	Muted() bool
	SetMuted(muted bool) error

	Speed() float64
	SetSpeed(rate float64) error

	// Destroy releases the engine. The handle is unusable afterwards.
	Destroy() error
}

// Stopper is implemented by engines with a stop primitive distinct from pause.
type Stopper interface {
	Stop() error
}

// Factory creates a fresh engine handle.
type Factory func() (Engine, error)
