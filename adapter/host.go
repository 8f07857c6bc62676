package adapter

import (
	"time"

	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/media"
)

// Host is the orchestration component an adapter reports to. Calls are made from the
// adapter's event loop.
type Host interface {
	Debug(msg string)
	Warn(msg string)
	Error(msg string)

	// ApplyVolume asks the host to push its persisted volume through the adapter.
	ApplyVolume()
	StartPlayback(accelerated bool)
	StopPlayback()
	StartLoading()
	StopLoading()
	SetSeekDelay(ms int)

	// State is the host's own global playback state.
	State() media.State
	// Position is the last position the host knows of, in seconds.
	Position() float64
}

// Resizer is implemented by hosts that follow the intrinsic size of the video.
type Resizer interface {
	SetSize(width, height int)
}

// Transition is a state change of one adapter.
type Transition struct {
	Profile string
	From    media.State
	To      media.State
	At      time.Time
}

// Observer receives every transition and fault of an adapter.
type Observer interface {
	Transition(t Transition)
	Fault(profile string, f *media.Fault)
}

// Player is the lifecycle and control surface the host drives.
type Player interface {
	Init()
	Ready(source string)
	Dispose()

	Play()
	Pause()
	Stop()

	Duration() float64
	Position() float64
	SetPosition(seconds float64)

	// Volume is on the host scale 0-100.
	Volume() float64
	SetVolume(v float64)

	Muted() bool
	SetMuted(muted bool)

	Speed() float64
	SetSpeed(rate float64)

	UpdateData() media.Snapshot
	State() media.State
}

type observers []Observer

// Observers fans transitions and faults out to every non-nil observer, in order.
func Observers(list ...Observer) Observer {
	return observers(lo.Compact(list))
}

func (o observers) Transition(t Transition) {
	for _, obs := range o {
		obs.Transition(t)
	}
}

func (o observers) Fault(profile string, f *media.Fault) {
	for _, obs := range o {
		obs.Fault(profile, f)
	}
}
