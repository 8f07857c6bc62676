package host

import (
	"context"
	"errors"
	"sync"

	"github.com/tvxlabs/mediabridge/adapter"
	"github.com/tvxlabs/mediabridge/eventloop"
	"github.com/tvxlabs/mediabridge/media"
)

var (
	// ErrAlreadyBound is returned by SetupPlayer once a player is bound.
	ErrAlreadyBound = errors.New("a player is already bound")
	// ErrNotBound is returned by Do before SetupPlayer.
	ErrNotBound = errors.New("no player is bound")
)

// Defaults reported while no player is bound.
const (
	DefaultVolume = 100
	DefaultSpeed  = 1
)

// Binding is the host side of exactly one player. Lifecycle and control calls are
// forwarded verbatim and must be made from the loop goroutine; other goroutines go
// through Do.
type Binding struct {
	loop *eventloop.Loop

	mu     sync.RWMutex
	player adapter.Player
}

var _ adapter.Player = (*Binding)(nil)

func NewBinding(loop *eventloop.Loop) *Binding {
	return &Binding{loop: loop}
}

// SetupPlayer binds p. Engines cannot be swapped once bound.
func (b *Binding) SetupPlayer(p adapter.Player) error {
	if p == nil {
		return errors.New("nil player")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player != nil {
		return ErrAlreadyBound
	}
	b.player = p
	return nil
}

// Bound reports whether a player is bound.
func (b *Binding) Bound() bool {
	return b.current() != nil
}

func (b *Binding) current() adapter.Player {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.player
}

// Do runs fn with the bound player on the loop and waits for it.
func (b *Binding) Do(ctx context.Context, fn func(p adapter.Player)) error {
	p := b.current()
	if p == nil {
		return ErrNotBound
	}
	return b.loop.Call(ctx, func() { fn(p) })
}

func (b *Binding) with(fn func(p adapter.Player)) {
	if p := b.current(); p != nil {
		fn(p)
	}
}

func (b *Binding) Init()                 { b.with(func(p adapter.Player) { p.Init() }) }
func (b *Binding) Ready(source string)   { b.with(func(p adapter.Player) { p.Ready(source) }) }
func (b *Binding) Dispose()              { b.with(func(p adapter.Player) { p.Dispose() }) }
func (b *Binding) Play()                 { b.with(func(p adapter.Player) { p.Play() }) }
func (b *Binding) Pause()                { b.with(func(p adapter.Player) { p.Pause() }) }
func (b *Binding) Stop()                 { b.with(func(p adapter.Player) { p.Stop() }) }
func (b *Binding) SetPosition(s float64) { b.with(func(p adapter.Player) { p.SetPosition(s) }) }
func (b *Binding) SetVolume(v float64)   { b.with(func(p adapter.Player) { p.SetVolume(v) }) }
func (b *Binding) SetMuted(m bool)       { b.with(func(p adapter.Player) { p.SetMuted(m) }) }
func (b *Binding) SetSpeed(r float64)    { b.with(func(p adapter.Player) { p.SetSpeed(r) }) }

func (b *Binding) Duration() float64 {
	if p := b.current(); p != nil {
		return p.Duration()
	}
	return 0
}

func (b *Binding) Position() float64 {
	if p := b.current(); p != nil {
		return p.Position()
	}
	return 0
}

func (b *Binding) Volume() float64 {
	if p := b.current(); p != nil {
		return p.Volume()
	}
	return DefaultVolume
}

func (b *Binding) Muted() bool {
	if p := b.current(); p != nil {
		return p.Muted()
	}
	return false
}

func (b *Binding) Speed() float64 {
	if p := b.current(); p != nil {
		return p.Speed()
	}
	return DefaultSpeed
}

// UpdateData is the status poll.
func (b *Binding) UpdateData() media.Snapshot {
	if p := b.current(); p != nil {
		return p.UpdateData()
	}
	return media.Snapshot{Speed: DefaultSpeed}
}

func (b *Binding) State() media.State {
	if p := b.current(); p != nil {
		return p.State()
	}
	return media.StateUninitialized
}
