// Package adapter implements the uniform lifecycle and control surface over playback
// engines.
//
// One Adapter drives one engine described by an engine.Profile. It subscribes to the
// engine's native events, runs the playback state machine, translates native errors and
// watches for engines that never become ready:
//
//	UNINITIALIZED --Init--> LOADING --ready--> READY --playing--> PLAYING <--> PAUSED
//	LOADING --timeout--> ERROR
//	READY|PLAYING|PAUSED --ended--> ENDED
//	READY|PLAYING|PAUSED --error--> ERROR
//	any --Dispose--> UNINITIALIZED
//
// An Adapter is not safe for concurrent use. Every method must be called from a task
// running on its event loop, the same loop native events and timers are delivered on.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/eventloop"
	"github.com/tvxlabs/mediabridge/media"
	"github.com/tvxlabs/mediabridge/watchdog"
)

var (
	ErrUnsupported   = errors.New("platform is not supported")
	ErrMissingSource = errors.New("no source to load")
	ErrDisposed      = errors.New("adapter was disposed")
)

const (
	defaultVolume = 100
	defaultSpeed  = 1
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithConfig sets the static configuration applied at Init.
func WithConfig(cfg media.Config) Option {
	return func(a *Adapter) {
		a.config = cfg
	}
}

// WithMount sets the mount point the engine is attached to.
func WithMount(mount string) Option {
	return func(a *Adapter) {
		a.mount = mount
	}
}

// WithReadyTimeout sets the readiness window. Profiles with their own window keep it.
func WithReadyTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		a.readyTimeout = d
	}
}

// WithObserver reports transitions and faults to o.
func WithObserver(o Observer) Option {
	return func(a *Adapter) {
		a.observer = o
	}
}

// WithAcceleratedStart overrides the profile's accelerated start flag.
func WithAcceleratedStart(accelerated bool) Option {
	return func(a *Adapter) {
		a.accelerated = mo.Some(accelerated)
	}
}

// Adapter is the generic engine adapter.
type Adapter struct {
	profile engine.Profile
	factory engine.Factory
	host    Host
	loop    *eventloop.Loop

	config       media.Config
	mount        string
	readyTimeout time.Duration
	observer     Observer
	accelerated  mo.Option[bool]

	watchdog *watchdog.Watchdog

	eng    engine.Engine
	offs   []func()
	ctx    context.Context
	cancel context.CancelFunc

	// loading is the in-flight promise-shaped load
	loading    *mo.Future[struct{}]
	cancelLoad context.CancelFunc

	state   media.State
	fault   *media.Fault
	retired bool

	// gen invalidates queued tasks of an earlier lifetime
	gen uint64

	ready          bool
	ended          bool
	started        bool
	waitingForUser bool
}

var _ Player = (*Adapter)(nil)

// New creates an adapter. Nothing is allocated before Init.
func New(profile engine.Profile, factory engine.Factory, host Host, loop *eventloop.Loop, opts ...Option) *Adapter {
	a := &Adapter{
		profile:  profile,
		factory:  factory,
		host:     host,
		loop:     loop,
		watchdog: watchdog.New(loop),
		state:    media.StateUninitialized,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Profile returns the engine profile driving the adapter.
func (a *Adapter) Profile() engine.Profile {
	return a.profile
}

// State returns the adapter's playback state.
func (a *Adapter) State() media.State {
	return a.state
}

// Watchdog exposes the readiness watchdog.
func (a *Adapter) Watchdog() watchdog.Handle {
	return a.watchdog.Handle()
}

// Fault returns the fault that disabled the instance, if any.
func (a *Adapter) Fault() mo.Option[*media.Fault] {
	if a.fault == nil {
		return mo.None[*media.Fault]()
	}
	return mo.Some(a.fault)
}

// Init allocates the engine and subscribes to its events. An engine that is not supported
// on this platform disables the instance: the fault is kept and reported by later commands.
func (a *Adapter) Init() {
	label := a.profile.DisplayLabel()

	if a.retired {
		a.host.Error(fmt.Sprintf("%s error: %s", label, ErrDisposed))
		return
	}
	if a.eng != nil || a.fault != nil {
		a.host.Debug(label + ": already initialized")
		return
	}

	eng, err := a.factory()
	if err != nil {
		a.disable(fmt.Errorf("%w: %w", ErrUnsupported, err))
		return
	}
	if !eng.Supported() {
		_ = eng.Destroy()
		a.disable(ErrUnsupported)
		return
	}

	a.ctx, a.cancel = context.WithCancel(context.Background())

	if delay := a.profile.SeekDelay; delay > 0 {
		a.host.SetSeekDelay(int(delay / time.Millisecond))
	}

	a.subscribe(eng)

	if err := eng.Attach(a.mount); err != nil {
		a.unsubscribe()
		_ = eng.Destroy()
		a.cancel()
		a.disable(fmt.Errorf("%w: %w", ErrUnsupported, err))
		return
	}
	a.eng = eng

	if !a.config.Empty() {
		if err := a.config.Validate(); err != nil {
			a.host.Warn(fmt.Sprintf("%s warning: invalid configuration not applied: %s", label, err))
		} else if err := eng.Configure(a.config); err != nil {
			a.host.Warn(fmt.Sprintf("%s warning: configuration: %s", label, err))
		}
	}

	a.watchdog.Reset()
	a.setState(media.StateLoading)

	if a.profile.ArmOnInit {
		a.arm()
	}
}

// disable records the unsupported platform fault silently. It is reported when the host
// tries to use the instance.
func (a *Adapter) disable(err error) {
	a.fault = &media.Fault{Kind: media.KindUnsupportedPlatform, Err: err}
	a.host.Debug(fmt.Sprintf("%s: %s", a.profile.DisplayLabel(), err))
	if a.observer != nil {
		a.observer.Fault(a.profile.Name, a.fault)
	}
}

func (a *Adapter) subscribe(eng engine.Engine) {
	gen := a.gen
	for _, name := range a.profile.Events.Names() {
		a.offs = append(a.offs, eng.On(name, func(ev engine.Event) {
			a.post(gen, func() { a.dispatch(ev) })
		}))
	}
}

func (a *Adapter) unsubscribe() {
	for _, off := range a.offs {
		off()
	}
	a.offs = nil
}

// post runs fn on the loop unless the adapter moved to another lifetime meanwhile.
func (a *Adapter) post(gen uint64, fn func()) {
	a.loop.Post(func() {
		if a.gen != gen || a.retired {
			return
		}
		fn()
	})
}

// Ready loads the source. An empty source is a warning and nothing is loaded.
func (a *Adapter) Ready(source string) {
	label := a.profile.DisplayLabel()

	eng, ok := a.live()
	if !ok {
		if a.fault == nil && !a.retired {
			a.host.Warn(label + " warning: ready before init")
		}
		return
	}

	if a.state.Terminal() {
		a.host.Warn(fmt.Sprintf("%s warning: playback is %s, not loading", label, a.state))
		return
	}

	source = strings.TrimSpace(source)
	if source == "" {
		a.report(&media.Fault{Kind: media.KindMissingSource, Err: ErrMissingSource})
		return
	}

	if !a.ready && !a.watchdog.Armed() && !a.watchdog.Spent() {
		a.arm()
	}

	a.abortLoad()

	switch a.profile.Load {
	case engine.LoadAssign:
		if err := eng.Load(a.ctx, source); err != nil {
			a.onLoadFailed(err)
		} else {
			a.onLoaded(source)
		}
	default:
		a.loadAsync(eng, source)
	}
}

// loadAsync runs the engine load off the loop and posts the continuation back.
func (a *Adapter) loadAsync(eng engine.Engine, source string) {
	gen := a.gen
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancelLoad = cancel

	a.loading = mo.NewFuture(func(resolve func(struct{}), reject func(error)) {
		if err := eng.Load(ctx, source); err != nil {
			reject(err)
			return
		}
		resolve(struct{}{})
	}).Then(func(struct{}) (struct{}, error) {
		a.post(gen, func() { a.onLoaded(source) })
		return struct{}{}, nil
	}).Catch(func(err error) (struct{}, error) {
		a.post(gen, func() { a.onLoadFailed(err) })
		return struct{}{}, nil
	})
}

func (a *Adapter) abortLoad() {
	if a.cancelLoad != nil {
		a.cancelLoad()
		a.cancelLoad = nil
	}
	if a.loading != nil {
		a.loading.Cancel()
		a.loading = nil
	}
}

func (a *Adapter) onLoaded(source string) {
	a.host.Debug(fmt.Sprintf("%s: loaded %s", a.profile.DisplayLabel(), source))
}

func (a *Adapter) onLoadFailed(err error) {
	if errors.Is(err, context.Canceled) {
		a.host.Debug(a.profile.DisplayLabel() + ": load cancelled")
		return
	}
	a.report(&media.Fault{Kind: media.KindLoad, Info: a.profile.Errors.Translate(err), Err: err})
}

// Dispose releases the engine. It is idempotent, safe before Init, and no queued event,
// timer or load continuation has any effect once it returns. The instance is retired.
func (a *Adapter) Dispose() {
	a.gen++
	a.retired = true

	a.abortLoad()
	if a.cancel != nil {
		a.cancel()
	}
	a.watchdog.Disarm()
	a.unsubscribe()

	if a.eng != nil {
		if err := a.eng.Destroy(); err != nil {
			a.host.Debug(fmt.Sprintf("%s: destroy: %s", a.profile.DisplayLabel(), err))
		}
		a.eng = nil
	}

	a.setState(media.StateUninitialized)
}

// live returns the engine when commands may reach it. A disabled instance re-reports its
// fault.
func (a *Adapter) live() (engine.Engine, bool) {
	if a.retired {
		return nil, false
	}
	if a.fault != nil {
		a.report(a.fault)
		return nil, false
	}
	return a.eng, a.eng != nil
}

func (a *Adapter) command(name string, fn func(eng engine.Engine) error) {
	eng, ok := a.live()
	if !ok {
		return
	}
	if err := fn(eng); err != nil {
		a.host.Warn(fmt.Sprintf("%s warning: %s: %s", a.profile.DisplayLabel(), name, err))
	}
}

// Play resumes playback.
func (a *Adapter) Play() {
	a.command("play", engine.Engine.Play)
}

// Pause pauses playback.
func (a *Adapter) Pause() {
	a.command("pause", engine.Engine.Pause)
}

// Stop uses the engine's stop primitive when the profile has one, pause otherwise.
func (a *Adapter) Stop() {
	a.command("stop", func(eng engine.Engine) error {
		if stopper, ok := eng.(engine.Stopper); ok && a.profile.CanStop {
			return stopper.Stop()
		}
		return eng.Pause()
	})
}

// Duration returns the media length in seconds, 0 when unknown.
func (a *Adapter) Duration() float64 {
	if a.eng == nil {
		return 0
	}
	return nonNegative(a.eng.Duration())
}

// Position returns the playback position in seconds.
func (a *Adapter) Position() float64 {
	if a.eng == nil {
		return 0
	}
	return nonNegative(a.eng.Position())
}

// SetPosition seeks to seconds. Negative values seek to the start.
func (a *Adapter) SetPosition(seconds float64) {
	a.command("seek", func(eng engine.Engine) error {
		return eng.Seek(nonNegative(seconds))
	})
}

// Volume returns the engine volume on the host scale 0-100.
func (a *Adapter) Volume() float64 {
	if a.eng == nil {
		return defaultVolume
	}
	v := a.eng.Volume()
	if math.IsNaN(v) {
		return defaultVolume
	}
	return lo.Clamp(v, 0, 1) * 100
}

// SetVolume takes a host scale volume 0-100.
func (a *Adapter) SetVolume(v float64) {
	a.command("volume", func(eng engine.Engine) error {
		if math.IsNaN(v) {
			return fmt.Errorf("invalid volume")
		}
		return eng.SetVolume(lo.Clamp(v, 0, 100) / 100)
	})
}

// Muted reports whether the engine is muted.
func (a *Adapter) Muted() bool {
	if a.eng == nil {
		return false
	}
	return a.eng.Muted()
}

// SetMuted mutes or unmutes the engine.
func (a *Adapter) SetMuted(muted bool) {
	a.command("mute", func(eng engine.Engine) error {
		return eng.SetMuted(muted)
	})
}

// Speed returns the playback rate, 1 when the engine reports none.
func (a *Adapter) Speed() float64 {
	if a.eng == nil {
		return defaultSpeed
	}
	s := a.eng.Speed()
	if !(s > 0) || math.IsInf(s, 0) {
		return defaultSpeed
	}
	return s
}

// SetSpeed sets the playback rate. Rates that are not positive and finite are reported as errors.
func (a *Adapter) SetSpeed(rate float64) {
	a.command("speed", func(eng engine.Engine) error {
		if !(rate > 0) || math.IsInf(rate, 0) {
			return fmt.Errorf("invalid rate %v", rate)
		}
		return eng.SetSpeed(rate)
	})
}

// UpdateData reads a fresh snapshot from the engine. For profiles with stall detection it
// also infers that autoplay was blocked and the engine waits for a user gesture, which is
// reported once as PAUSED.
func (a *Adapter) UpdateData() media.Snapshot {
	snapshot := media.Snapshot{
		Position: a.Position(),
		Duration: a.Duration(),
		Speed:    a.Speed(),
	}

	if a.profile.StallDetection && a.stalledOnStart() {
		a.waitingForUser = true
		a.host.Debug(a.profile.DisplayLabel() + ": waiting for user gesture")
		snapshot.State = mo.Some(media.StatePaused)
	}

	return snapshot
}

func (a *Adapter) stalledOnStart() bool {
	if a.eng == nil || a.retired || !a.ready || a.started || a.ended || a.waitingForUser {
		return false
	}
	if a.state != media.StateReady && a.state != media.StatePaused {
		return false
	}
	return a.host.State() == media.StatePlaying && a.host.Position() == 0 && a.eng.Paused()
}

func (a *Adapter) arm() {
	timeout := a.timeout()
	if err := a.watchdog.Arm(timeout, a.onTimeout); err != nil {
		a.host.Debug(fmt.Sprintf("%s: %s", a.profile.DisplayLabel(), err))
		return
	}
	a.host.StartLoading()
	a.host.Debug(fmt.Sprintf("%s: waiting up to %s for ready", a.profile.DisplayLabel(), timeout))
}

func (a *Adapter) timeout() time.Duration {
	if a.profile.ReadyTimeout > 0 {
		return a.profile.ReadyTimeout
	}
	if a.readyTimeout > 0 {
		return a.readyTimeout
	}
	return watchdog.DefaultTimeout
}

func (a *Adapter) onTimeout() {
	if a.ready || a.state.Terminal() {
		return
	}
	a.host.StopLoading()
	a.abortLoad()
	a.setState(media.StateError)
	a.report(&media.Fault{
		Kind: media.KindTimeout,
		Err:  fmt.Errorf("no ready signal within %s", a.timeout()),
	})
}

func (a *Adapter) acceleratedStart() bool {
	return a.accelerated.OrElse(a.profile.AcceleratedStart)
}

func (a *Adapter) setState(to media.State) {
	if a.state == to {
		return
	}
	from := a.state
	a.state = to

	if a.observer != nil {
		a.observer.Transition(Transition{
			Profile: a.profile.Name,
			From:    from,
			To:      to,
			At:      a.loop.Now(),
		})
	}
}

// report sends a fault to the host logging surface and the observer.
func (a *Adapter) report(f *media.Fault) {
	label := a.profile.DisplayLabel()

	switch {
	case f.Warning():
		a.host.Warn(fmt.Sprintf("%s warning: %s", label, f))
	case f.Kind == media.KindLoad || f.Kind == media.KindRuntime:
		a.host.Error(fmt.Sprintf("%s error: %s", label, f.Info.String()))
		if msg, ok := f.Info.Message.Get(); ok {
			a.host.Debug(fmt.Sprintf("%s: %s", label, msg))
		}
	default:
		a.host.Error(fmt.Sprintf("%s error: %s: %s", label, f.Kind, f))
	}

	if a.observer != nil {
		a.observer.Fault(a.profile.Name, f)
	}
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
