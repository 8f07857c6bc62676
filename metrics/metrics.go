// Package metrics exports adapter lifecycle and control surface metrics to prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tvxlabs/mediabridge/adapter"
	"github.com/tvxlabs/mediabridge/media"
)

const namespace = "mediabridge"

// Metrics is an adapter.Observer recording every transition and fault.
type Metrics struct {
	gatherer prometheus.Gatherer

	transitions *prometheus.CounterVec
	faults      *prometheus.CounterVec
	timeouts    *prometheus.CounterVec
	state       *prometheus.GaugeVec
	readyTime   *prometheus.HistogramVec
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec

	mu          sync.Mutex
	loadingFrom map[string]time.Time
}

var _ adapter.Observer = (*Metrics)(nil)

// New registers the metrics on a fresh registry.
func New() *Metrics {
	return NewWith(prometheus.NewRegistry())
}

// NewWith registers the metrics on reg.
func NewWith(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "adapter",
			Name:      "transitions_total",
			Help:      "Adapter state transitions.",
		}, []string{"engine", "from", "to"}),
		faults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "adapter",
			Name:      "faults_total",
			Help:      "Faults reported by adapters, by kind.",
		}, []string{"engine", "kind"}),
		timeouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "adapter",
			Name:      "ready_timeouts_total",
			Help:      "Readiness watchdog expirations.",
		}, []string{"engine"}),
		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "adapter",
			Name:      "state",
			Help:      "1 for the current state of each engine, 0 otherwise.",
		}, []string{"engine", "state"}),
		readyTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "adapter",
			Name:      "time_to_ready_seconds",
			Help:      "Time from loading to ready.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"engine"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "control",
			Name:      "requests_total",
			Help:      "Control surface requests.",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "control",
			Name:      "request_duration_seconds",
			Help:      "Control surface request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		loadingFrom: make(map[string]time.Time),
	}
}

func (m *Metrics) Transition(t adapter.Transition) {
	m.transitions.WithLabelValues(t.Profile, t.From.String(), t.To.String()).Inc()

	for _, s := range media.States() {
		value := 0.0
		if s == t.To {
			value = 1
		}
		m.state.WithLabelValues(t.Profile, s.String()).Set(value)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch t.To {
	case media.StateLoading:
		m.loadingFrom[t.Profile] = t.At
	case media.StateReady:
		if from, ok := m.loadingFrom[t.Profile]; ok {
			m.readyTime.WithLabelValues(t.Profile).Observe(t.At.Sub(from).Seconds())
			delete(m.loadingFrom, t.Profile)
		}
	default:
		if t.To.Terminal() || t.To == media.StateUninitialized {
			delete(m.loadingFrom, t.Profile)
		}
	}
}

func (m *Metrics) Fault(profile string, f *media.Fault) {
	m.faults.WithLabelValues(profile, f.Kind.String()).Inc()
	if f.Kind == media.KindTimeout {
		m.timeouts.WithLabelValues(profile).Inc()
	}
}

// Request records one control surface request.
func (m *Metrics) Request(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
