package mpv

import (
	"github.com/samber/lo"
)

// Play resumes playback.
func (e *Engine) Play() error {
	return e.set("pause", false)
}

// Pause suspends playback.
func (e *Engine) Pause() error {
	return e.set("pause", true)
}

// Stop unloads the current file, leaving mpv idle.
func (e *Engine) Stop() error {
	_, err := e.sendCommand([]interface{}{"stop"})
	return err
}

func (e *Engine) Paused() (paused bool) {
	e.props.read(func(p *properties) { paused = p.paused })
	return
}

func (e *Engine) Duration() (duration float64) {
	e.props.read(func(p *properties) { duration = p.duration })
	return
}

func (e *Engine) Position() (position float64) {
	e.props.read(func(p *properties) { position = p.position })
	return
}

// Seek moves playback to an absolute position in seconds.
func (e *Engine) Seek(seconds float64) error {
	_, err := e.sendCommand([]interface{}{"seek", seconds, "absolute"})
	return err
}

// Volume returns the volume on the 0.0-1.0 scale. mpv itself uses 0-100 and allows
// amplification above it, which is capped here.
func (e *Engine) Volume() (volume float64) {
	e.props.read(func(p *properties) { volume = lo.Clamp(p.volume, 0, 100) / 100 })
	return
}

func (e *Engine) SetVolume(v float64) error {
	mpvVolume := lo.Clamp(v, 0, 1) * 100
	if err := e.set("volume", mpvVolume); err != nil {
		return err
	}
	e.props.update(func(p *properties) { p.volume = mpvVolume })
	return nil
}

func (e *Engine) Muted() (muted bool) {
	e.props.read(func(p *properties) { muted = p.muted })
	return
}

func (e *Engine) SetMuted(muted bool) error {
	if err := e.set("mute", muted); err != nil {
		return err
	}
	e.props.update(func(p *properties) { p.muted = muted })
	return nil
}

func (e *Engine) Speed() (speed float64) {
	e.props.read(func(p *properties) { speed = p.speed })
	return
}

func (e *Engine) SetSpeed(rate float64) error {
	if err := e.set("speed", rate); err != nil {
		return err
	}
	e.props.update(func(p *properties) { p.speed = rate })
	return nil
}
