// Package mpv implements engine.Engine on top of the mpv player and its JSON-IPC protocol.
//
// mpv runs as a child process in idle mode. Commands go through short-lived socket
// connections; a persistent connection observes properties and turns mpv events into
// the native events named by engine.Mpv.
package mpv

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/constant"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/log"
	"github.com/tvxlabs/mediabridge/media"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// ErrNotAttached is returned by commands issued before Attach or after Destroy.
var ErrNotAttached = errors.New("mpv is not running")

var (
	_ engine.Engine  = (*Engine)(nil)
	_ engine.Stopper = (*Engine)(nil)
)

// Engine drives a single mpv process.
type Engine struct {
	binary    string
	socketDir string
	extraArgs []string

	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	destroying bool

	mu sync.Mutex // serializes IPC commands

	events *listener
	props  *properties
	subs   *subscribers

	loadMu  sync.Mutex
	pending chan error
}

// Option configures an Engine.
type Option func(*Engine)

// WithBinary sets the mpv executable. Defaults to "mpv" looked up in PATH.
func WithBinary(path string) Option {
	return func(e *Engine) {
		e.binary = path
	}
}

// WithSocketDir sets where the IPC socket is created.
func WithSocketDir(dir string) Option {
	return func(e *Engine) {
		e.socketDir = dir
	}
}

// WithArgs appends extra command line arguments.
func WithArgs(args ...string) Option {
	return func(e *Engine) {
		e.extraArgs = append(e.extraArgs, args...)
	}
}

// New creates an engine. mpv is not started until Attach.
func New(opts ...Option) *Engine {
	e := &Engine{
		binary:    "mpv",
		socketDir: os.TempDir(),
		exited:    make(chan struct{}),
		props:     newProperties(),
		subs:      newSubscribers(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Factory returns an engine.Factory creating engines with the given options.
func Factory(opts ...Option) engine.Factory {
	return func() (engine.Engine, error) {
		return New(opts...), nil
	}
}

// Supported reports whether the mpv executable can be found.
func (e *Engine) Supported() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// Attach starts mpv. mount, when set, is the window id mpv embeds into.
func (e *Engine) Attach(mount string) error {
	if e.cmd != nil {
		return fmt.Errorf("mpv already attached")
	}

	// Random socket names keep concurrent sessions apart
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	e.socketPath = filepath.Join(e.socketDir, fmt.Sprintf("%s-%x.sock", constant.Mediabridge, randomBytes))

	e.cmd = exec.Command(e.binary, buildArgs(e.socketPath, mount, e.extraArgs)...)
	e.cmd.SysProcAttr = sysProcAttr()
	e.cmd.Stdout = nil
	e.cmd.Stderr = nil
	e.cmd.Stdin = nil

	if err := e.cmd.Start(); err != nil {
		e.cmd = nil
		return fmt.Errorf("start mpv: %w", err)
	}

	e.exited = make(chan struct{})
	go e.reap()

	if err := e.waitForSocket(); err != nil {
		select {
		case <-e.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(e.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	e.events = newListener(e.socketPath, e.handle)
	if err := e.events.Start(); err != nil {
		_ = e.Destroy()
		return err
	}

	return nil
}

func (e *Engine) reap() {
	_ = e.cmd.Wait()
	close(e.exited)

	e.loadMu.Lock()
	destroying := e.destroying
	e.loadMu.Unlock()

	// The window was closed by the user
	if !destroying {
		e.resolveLoad(fmt.Errorf("mpv exited"))
		e.subs.emit(engine.Event{Name: eventEOF})
	}
}

// buildArgs keeps mpv.conf in charge of everything but the IPC plumbing.
func buildArgs(socketPath, mount string, extra []string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		"--idle=yes",
		"--pause=yes",
		"--keep-open=no",
	}

	if mount != "" {
		args = append(args, fmt.Sprintf("--wid=%s", mount))
	} else {
		args = append(args, "--force-window=yes")
	}

	return append(args, lo.Filter(extra, func(a string, _ int) bool {
		return strings.HasPrefix(a, "--")
	})...)
}

func (e *Engine) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-e.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", e.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", e.socketPath, socketWaitRetries)
}

// Configure applies the static configuration as mpv properties.
func (e *Engine) Configure(cfg media.Config) error {
	if cfg.AudioLanguage != "" {
		if err := e.set("alang", cfg.AudioLanguage); err != nil {
			return fmt.Errorf("audio language: %w", err)
		}
	}

	if cfg.Width > 0 && cfg.Height > 0 {
		if err := e.set("geometry", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)); err != nil {
			return fmt.Errorf("geometry: %w", err)
		}
	}

	switch ids := cfg.KeyIDs(); len(ids) {
	case 0:
	case 1:
		// lavf decrypts CENC content with a single key; the id is implied by the content
		key := cfg.ClearKeys[ids[0]]
		if err := e.set("demuxer-lavf-o", "decryption_key="+key); err != nil {
			return fmt.Errorf("decryption key: %w", err)
		}
	default:
		return fmt.Errorf("mpv accepts a single decryption key, got %d", len(ids))
	}

	return nil
}

// Load replaces the current file and waits until mpv either loaded it or gave up.
func (e *Engine) Load(ctx context.Context, source string) error {
	target, err := sanitizeMediaTarget(source)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	done := make(chan error, 1)
	e.loadMu.Lock()
	e.pending = done
	e.loadMu.Unlock()

	defer func() {
		e.loadMu.Lock()
		if e.pending == done {
			e.pending = nil
		}
		e.loadMu.Unlock()
	}()

	if _, err := e.sendCommand([]interface{}{"loadfile", target, "replace"}); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.exited:
		return fmt.Errorf("mpv exited while loading")
	}
}

// resolveLoad completes a pending Load. It reports whether one was pending.
func (e *Engine) resolveLoad(err error) bool {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	if e.pending == nil {
		return false
	}
	e.pending <- err
	e.pending = nil
	return true
}

// On subscribes to a native event.
func (e *Engine) On(name string, fn engine.Listener) func() {
	return e.subs.add(name, fn)
}

// Destroy quits mpv and removes the socket.
func (e *Engine) Destroy() error {
	if e.events != nil {
		e.events.Stop()
	}
	e.subs.clear()

	if e.cmd == nil {
		return nil
	}

	e.loadMu.Lock()
	e.destroying = true
	e.loadMu.Unlock()

	_, _ = e.sendCommand([]interface{}{"quit"})

	select {
	case <-e.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(e.cmd)
	}

	_ = os.Remove(e.socketPath)
	e.cmd = nil
	return nil
}

// Socket returns the IPC socket path.
func (e *Engine) Socket() string {
	return e.socketPath
}

// sanitizeMediaTarget validates that a source is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "rtmp", "rtsp":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}
