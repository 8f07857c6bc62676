// Package control serves an HTTP surface driving the bound player: status, transport
// commands, a websocket status stream and prometheus metrics.
package control

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/tvxlabs/mediabridge/adapter"
	"github.com/tvxlabs/mediabridge/host"
	"github.com/tvxlabs/mediabridge/log"
	"github.com/tvxlabs/mediabridge/metrics"
	"golang.org/x/net/netutil"
)

// Controller runs fn with the bound player on its loop.
type Controller interface {
	Do(ctx context.Context, fn func(p adapter.Player)) error
}

// StatusSource reports host side state next to the player's.
type StatusSource interface {
	Status() host.Status
}

// VolumeStore persists volume changes made through the surface.
type VolumeStore interface {
	RememberVolume(v float64) error
	RememberMuted(muted bool) error
}

// Server is the control surface.
type Server struct {
	router   chi.Router
	player   Controller
	status   StatusSource
	volumes  VolumeStore
	metrics  *metrics.Metrics
	interval time.Duration
	timeout  time.Duration
	maxConns int
	validate *validator.Validate
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithStatus adds host state to status responses.
func WithStatus(s StatusSource) Option {
	return func(srv *Server) {
		srv.status = s
	}
}

// WithVolumeStore persists volume and mute changes.
func WithVolumeStore(v VolumeStore) Option {
	return func(srv *Server) {
		srv.volumes = v
	}
}

// WithMetrics records requests and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(srv *Server) {
		srv.metrics = m
	}
}

// WithStreamInterval sets how often /ws pushes a status. Defaults to one second.
func WithStreamInterval(d time.Duration) Option {
	return func(srv *Server) {
		if d > 0 {
			srv.interval = d
		}
	}
}

// WithMaxConnections caps the simultaneous connections Serve accepts. Defaults to 16;
// zero or less removes the cap.
func WithMaxConnections(n int) Option {
	return func(srv *Server) {
		srv.maxConns = n
	}
}

// New builds the router.
func New(player Controller, opts ...Option) *Server {
	s := &Server{
		player:   player,
		interval: time.Second,
		timeout:  5 * time.Second,
		maxConns: 16,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.observe)

	r.Get("/status", s.handleStatus)
	r.Post("/play", s.command(func(p adapter.Player) { p.Play() }))
	r.Post("/pause", s.command(func(p adapter.Player) { p.Pause() }))
	r.Post("/stop", s.command(func(p adapter.Player) { p.Stop() }))
	r.Put("/position", s.handlePosition)
	r.Put("/volume", s.handleVolume)
	r.Put("/muted", s.handleMuted)
	r.Put("/speed", s.handleSpeed)
	r.Get("/ws", s.handleStream)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// observe logs every request and records it in the metrics.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		log.With("method", r.Method).With("route", route).With("status", status).Debug("control request")
		if s.metrics != nil {
			s.metrics.Request(r.Method, route, status, time.Since(start))
		}
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.maxConns > 0 {
		ln = netutil.LimitListener(ln, s.maxConns)
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
