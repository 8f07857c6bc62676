package adapter

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/media"
)

// dispatch routes a native event to its handlers. A name may serve several roles.
func (a *Adapter) dispatch(ev engine.Event) {
	events := a.profile.Events

	if ev.Name == events.Ready {
		a.onReady()
	}
	if ev.Name == events.Playing {
		a.onPlaying()
	}
	if ev.Name == events.Paused {
		a.onPaused()
	}
	if lo.Contains(events.Ended, ev.Name) {
		a.onEnded()
	}
	if ev.Name == events.Error {
		a.onError(ev.Payload)
	}
	if ev.Name == events.QualityChanged {
		a.onQualityChanged(ev.Payload)
	}
}

// onReady runs the readiness side effects once per lifetime. The watchdog is disarmed
// before anything else so a queued timeout cannot fire as well.
func (a *Adapter) onReady() {
	if a.ready {
		a.host.Debug(a.profile.DisplayLabel() + ": duplicate ready ignored")
		return
	}
	if a.state.Terminal() {
		a.host.Debug(fmt.Sprintf("%s: ready ignored, playback is %s", a.profile.DisplayLabel(), a.state))
		return
	}

	a.ready = true
	a.waitingForUser = false
	a.watchdog.Disarm()
	a.host.StopLoading()
	a.setState(media.StateReady)
	a.host.ApplyVolume()
	a.host.StartPlayback(a.acceleratedStart())
}

func (a *Adapter) onPlaying() {
	a.waitingForUser = false

	if !a.ready || a.state.Terminal() {
		return
	}
	a.started = true
	a.setState(media.StatePlaying)
}

func (a *Adapter) onPaused() {
	if a.state == media.StateReady || a.state == media.StatePlaying {
		a.setState(media.StatePaused)
	}
}

func (a *Adapter) onEnded() {
	if a.ended {
		a.host.Debug(a.profile.DisplayLabel() + ": duplicate ended ignored")
		return
	}
	if a.state == media.StateError {
		return
	}

	a.ended = true

	if !a.ready {
		a.watchdog.Disarm()
		a.host.StopLoading()
		a.host.Warn(a.profile.DisplayLabel() + " warning: ended before ready")
	}

	a.setState(media.StateEnded)
	a.host.StopPlayback()
}

// onError translates a native error. Before ready it fails the current load and the
// instance stays loading; afterwards playback is over.
func (a *Adapter) onError(payload any) {
	if a.state.Terminal() {
		a.host.Debug(fmt.Sprintf("%s: error ignored, playback is %s", a.profile.DisplayLabel(), a.state))
		return
	}

	info := a.profile.Errors.Translate(payload)

	if !a.ready {
		a.report(&media.Fault{Kind: media.KindLoad, Info: info})
		return
	}

	a.setState(media.StateError)
	a.report(&media.Fault{Kind: media.KindRuntime, Info: info})
}

func (a *Adapter) onQualityChanged(payload any) {
	resizer, ok := a.host.(Resizer)
	if !ok {
		return
	}

	switch size := payload.(type) {
	case media.Size:
		resizer.SetSize(size.Width, size.Height)
	case *media.Size:
		if size != nil {
			resizer.SetSize(size.Width, size.Height)
		}
	}
}
