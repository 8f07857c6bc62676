package host

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/tvxlabs/mediabridge/adapter"
	"github.com/tvxlabs/mediabridge/color"
	"github.com/tvxlabs/mediabridge/config"
	"github.com/tvxlabs/mediabridge/icon"
	"github.com/tvxlabs/mediabridge/key"
	"github.com/tvxlabs/mediabridge/log"
	"github.com/tvxlabs/mediabridge/media"
	"github.com/tvxlabs/mediabridge/style"
)

// Session is the command-line host: it keeps the global playback state, pushes the
// persisted volume into the player and prints warnings and errors. Host callbacks arrive
// on the loop; the accessors are safe from any goroutine.
type Session struct {
	player  adapter.Player
	out     io.Writer
	logger  log.Entry
	persist bool

	mu          sync.RWMutex
	state       media.State
	position    float64
	duration    float64
	loading     bool
	accelerated bool
	seekDelay   time.Duration
	size        media.Size
	waiting     bool
	fault       *media.Fault

	done     chan struct{}
	doneOnce sync.Once
}

var (
	_ adapter.Host     = (*Session)(nil)
	_ adapter.Resizer  = (*Session)(nil)
	_ adapter.Observer = (*Session)(nil)
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithOutput sets where warnings and errors are printed. Defaults to stderr.
func WithOutput(w io.Writer) SessionOption {
	return func(s *Session) {
		s.out = w
	}
}

// WithPersistence writes volume changes to the config file.
func WithPersistence(persist bool) SessionOption {
	return func(s *Session) {
		s.persist = persist
	}
}

// NewSession returns a session driving player, usually a Binding. name tags log entries.
func NewSession(player adapter.Player, name string, opts ...SessionOption) *Session {
	s := &Session{
		player: player,
		out:    os.Stderr,
		logger: log.With("engine", name),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Debug(msg string) {
	s.logger.Debug(msg)
}

func (s *Session) Warn(msg string) {
	s.logger.Warn(msg)
	fmt.Fprintf(s.out, "%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), msg)
}

func (s *Session) Error(msg string) {
	s.logger.Error(msg)
	fmt.Fprintf(s.out, "%s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), msg)
}

// ApplyVolume pushes the persisted volume and mute flag into the player.
func (s *Session) ApplyVolume() {
	s.player.SetVolume(config.Volume())
	s.player.SetMuted(viper.GetBool(key.PlayerMuted))
}

func (s *Session) StartPlayback(accelerated bool) {
	s.mu.Lock()
	s.accelerated = accelerated
	s.state = media.StatePlaying
	s.mu.Unlock()

	s.logger.With("accelerated", accelerated).Info("starting playback")
	s.player.Play()
}

func (s *Session) StopPlayback() {
	s.mu.Lock()
	s.state = media.StateEnded
	s.mu.Unlock()

	s.logger.Info("playback stopped")
	s.finish(nil)
}

func (s *Session) StartLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
}

func (s *Session) StopLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

func (s *Session) SetSeekDelay(ms int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekDelay = time.Duration(ms) * time.Millisecond
}

func (s *Session) SetSize(width, height int) {
	s.mu.Lock()
	s.size = media.Size{Width: width, Height: height}
	s.mu.Unlock()

	s.logger.Debug(fmt.Sprintf("video size %dx%d", width, height))
}

func (s *Session) State() media.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Position() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// Transition mirrors adapter state changes into the global state.
func (s *Session) Transition(t adapter.Transition) {
	s.mu.Lock()
	s.state = t.To
	if t.To == media.StatePlaying {
		s.waiting = false
	}
	s.mu.Unlock()

	s.logger.Info(fmt.Sprintf("%s -> %s", t.From, t.To))
	if t.To == media.StateEnded {
		s.finish(nil)
	}
}

// Fault ends the session: the command line has no retry policy.
func (s *Session) Fault(_ string, f *media.Fault) {
	s.finish(f)
}

// Observe records a status poll. A state carried by the snapshot overrides the global
// state; a pause inferred on a stalled start prints a notice once.
func (s *Session) Observe(snap media.Snapshot) {
	s.mu.Lock()
	s.position = snap.Position
	s.duration = snap.Duration

	notify := false
	if state, ok := snap.State.Get(); ok {
		s.state = state
		if state == media.StatePaused && !s.waiting {
			s.waiting = true
			notify = true
		}
	}
	s.mu.Unlock()

	if notify {
		fmt.Fprintf(s.out, "%s %s\n", style.Fg(color.Cyan)(icon.Get(icon.Pause)), "playback is waiting, press play to start")
	}
}

// RememberVolume records v (0-100) as the volume applied on the next start.
func (s *Session) RememberVolume(v float64) error {
	viper.Set(key.PlayerVolume, int(v+0.5))
	return s.save()
}

// RememberMuted records the mute flag applied on the next start.
func (s *Session) RememberMuted(muted bool) error {
	viper.Set(key.PlayerMuted, muted)
	return s.save()
}

func (s *Session) save() error {
	if !s.persist {
		return nil
	}
	return config.Write()
}

func (s *Session) finish(f *media.Fault) {
	s.doneOnce.Do(func() {
		s.mu.Lock()
		s.fault = f
		s.mu.Unlock()
		close(s.done)
	})
}

// Done is closed when playback ended or failed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the fault that ended the session, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fault == nil {
		return nil
	}
	return s.fault
}

// Status is a point-in-time view of the session.
type Status struct {
	State       media.State   `json:"state"`
	Position    float64       `json:"position"`
	Duration    float64       `json:"duration"`
	Loading     bool          `json:"loading"`
	Waiting     bool          `json:"waiting"`
	Accelerated bool          `json:"accelerated"`
	SeekDelay   time.Duration `json:"seek_delay"`
	Size        media.Size    `json:"size"`
}

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		State:       s.state,
		Position:    s.position,
		Duration:    s.duration,
		Loading:     s.loading,
		Waiting:     s.waiting,
		Accelerated: s.accelerated,
		SeekDelay:   s.seekDelay,
		Size:        s.size,
	}
}
