// Package enginetest provides a scripted engine.Engine for tests.
package enginetest

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/media"
)

// Fake records every call and lets tests emit native events. It is safe for concurrent
// use since promise-shaped loads run off the loop.
type Fake struct {
	mu sync.Mutex

	unsupported  bool
	attachErr    error
	configureErr error
	loadErr      error
	commandErr   error
	gate         chan struct{}

	calls     []string
	sources   []string
	mount     string
	config    media.Config
	destroyed bool

	nextID    int
	listeners map[string]map[int]engine.Listener

	paused   bool
	duration float64
	position float64
	volume   float64
	muted    bool
	speed    float64
}

// New returns a supported fake with a paused, empty media element at full volume.
func New() *Fake {
	return &Fake{
		listeners: make(map[string]map[int]engine.Listener),
		paused:    true,
		volume:    1,
		speed:     1,
	}
}

// Factory returns a factory handing out f.
func (f *Fake) Factory() engine.Factory {
	return func() (engine.Engine, error) {
		f.record("factory")
		return f, nil
	}
}

func (f *Fake) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *Fake) with(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn()
}

// Unsupported makes Supported report false.
func (f *Fake) Unsupported() *Fake {
	f.with(func() { f.unsupported = true })
	return f
}

// FailAttach makes Attach fail with err.
func (f *Fake) FailAttach(err error) *Fake {
	f.with(func() { f.attachErr = err })
	return f
}

// FailConfigure makes Configure fail with err.
func (f *Fake) FailConfigure(err error) *Fake {
	f.with(func() { f.configureErr = err })
	return f
}

// FailLoad makes the next loads fail with err. A nil err makes them succeed again.
func (f *Fake) FailLoad(err error) *Fake {
	f.with(func() { f.loadErr = err })
	return f
}

// FailCommands makes every control command fail with err.
func (f *Fake) FailCommands(err error) *Fake {
	f.with(func() { f.commandErr = err })
	return f
}

// HoldLoads makes Load block until Release is called or its context ends.
func (f *Fake) HoldLoads() *Fake {
	f.with(func() { f.gate = make(chan struct{}) })
	return f
}

// Release unblocks held loads.
func (f *Fake) Release() {
	f.with(func() {
		if f.gate != nil {
			close(f.gate)
			f.gate = nil
		}
	})
}

// SetDuration changes the reported duration.
func (f *Fake) SetDuration(d float64) {
	f.with(func() { f.duration = d })
}

// SetPlaying changes the reported paused flag without emitting anything.
func (f *Fake) SetPlaying(playing bool) {
	f.with(func() { f.paused = !playing })
}

// SetSpeedValue changes the reported rate without recording a command.
func (f *Fake) SetSpeedValue(rate float64) {
	f.with(func() { f.speed = rate })
}

// SetVolumeValue changes the reported engine volume without recording a command.
func (f *Fake) SetVolumeValue(v float64) {
	f.with(func() { f.volume = v })
}

// SetPositionValue changes the reported position without recording a command.
func (f *Fake) SetPositionValue(p float64) {
	f.with(func() { f.position = p })
}

// Emit calls the listeners of name synchronously, in subscription order.
func (f *Fake) Emit(name string, payload any) {
	f.mu.Lock()
	byID := f.listeners[name]
	ids := lo.Keys(byID)
	sort.Ints(ids)
	listeners := lo.Map(ids, func(id int, _ int) engine.Listener { return byID[id] })
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(engine.Event{Name: name, Payload: payload})
	}
}

// Calls returns the recorded calls in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Count returns how many times call was recorded.
func (f *Fake) Count(call string) int {
	return lo.Count(f.Calls(), call)
}

// Sources returns the sources passed to Load.
func (f *Fake) Sources() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sources...)
}

// Listeners returns how many subscriptions are active.
func (f *Fake) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return lo.SumBy(lo.Values(f.listeners), func(m map[int]engine.Listener) int { return len(m) })
}

// Mount returns the mount passed to Attach.
func (f *Fake) Mount() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mount
}

// Config returns the configuration passed to Configure.
func (f *Fake) Config() media.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.config
}

// Destroyed reports whether Destroy was called.
func (f *Fake) Destroyed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

func (f *Fake) Supported() bool {
	f.record("supported")
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.unsupported
}

func (f *Fake) Attach(mount string) error {
	f.record("attach")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mount = mount
	return f.attachErr
}

func (f *Fake) Configure(cfg media.Config) error {
	f.record("configure")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.configureErr != nil {
		return f.configureErr
	}
	f.config = cfg
	return nil
}

func (f *Fake) On(name string, fn engine.Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	if f.listeners[name] == nil {
		f.listeners[name] = make(map[int]engine.Listener)
	}
	f.listeners[name][id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners[name], id)
	}
}

func (f *Fake) Load(ctx context.Context, source string) error {
	f.record("load")

	f.mu.Lock()
	f.sources = append(f.sources, source)
	gate, err := f.gate, f.loadErr
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *Fake) command(name string, fn func()) error {
	f.record(name)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commandErr != nil {
		return f.commandErr
	}
	fn()
	return nil
}

func (f *Fake) Play() error {
	return f.command("play", func() { f.paused = false })
}

func (f *Fake) Pause() error {
	return f.command("pause", func() { f.paused = true })
}

func (f *Fake) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *Fake) Duration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *Fake) Position() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *Fake) Seek(seconds float64) error {
	return f.command("seek", func() { f.position = seconds })
}

func (f *Fake) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *Fake) SetVolume(v float64) error {
	return f.command("volume", func() { f.volume = v })
}

func (f *Fake) Muted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.muted
}

func (f *Fake) SetMuted(muted bool) error {
	return f.command("mute", func() { f.muted = muted })
}

func (f *Fake) Speed() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.speed
}

func (f *Fake) SetSpeed(rate float64) error {
	return f.command("speed", func() { f.speed = rate })
}

func (f *Fake) Destroy() error {
	f.record("destroy")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = true
	return nil
}

// Stoppable is a Fake with a stop primitive.
type Stoppable struct {
	*Fake
}

// NewStoppable returns a Stoppable around a fresh Fake.
func NewStoppable() *Stoppable {
	return &Stoppable{Fake: New()}
}

// Factory returns a factory handing out s.
func (s *Stoppable) Factory() engine.Factory {
	return func() (engine.Engine, error) {
		s.record("factory")
		return s, nil
	}
}

func (s *Stoppable) Stop() error {
	return s.command("stop", func() { s.paused = true })
}

var (
	_ engine.Engine  = (*Fake)(nil)
	_ engine.Stopper = (*Stoppable)(nil)
)
