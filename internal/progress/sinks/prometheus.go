package sinks

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JakeFAU/employee-discovery/internal/progress"
)

// PrometheusSink exports launch metrics via Prometheus. It owns the collectors
// for launches started/completed/running and synthesized placeholders.
type PrometheusSink struct {
	launchesStarted   *prometheus.CounterVec
	launchesCompleted *prometheus.CounterVec
	launchesRunning   prometheus.Gauge
	launchRuntime     *prometheus.HistogramVec
	placeholders      *prometheus.CounterVec

	tracker *launchTracker
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		launchesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_launches_started_total",
			Help: "Search scripts spawned, partitioned by method token.",
		}, []string{"method"}),
		launchesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_launches_completed_total",
			Help: "Search scripts finished, partitioned by method token and result.",
		}, []string{"method", "result"}),
		launchesRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "discovery_launches_running",
			Help: "Search scripts currently running.",
		}),
		launchRuntime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "discovery_launch_runtime_seconds",
			Help:    "Wall time per finished search script.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"method"}),
		placeholders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_placeholders_created_total",
			Help: "Placeholder scripts synthesized for missing search scripts.",
		}, []string{"method"}),
		tracker: newLaunchTracker(),
	}
	for _, collector := range []prometheus.Collector{
		s.launchesStarted,
		s.launchesCompleted,
		s.launchesRunning,
		s.launchRuntime,
		s.placeholders,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the Prometheus collectors using the provided batch. It is
// safe for concurrent use by multiple goroutines.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.consumeEvent(evt)
	}
	return nil
}

func (s *PrometheusSink) consumeEvent(evt progress.Event) {
	method := evt.Token
	if method == "" {
		method = "unknown"
	}
	switch evt.Stage {
	case progress.StageLaunchStart:
		s.launchesStarted.WithLabelValues(method).Inc()
		if s.tracker.start(evt.LaunchID) {
			s.launchesRunning.Inc()
		}
	case progress.StageLaunchExit, progress.StageLaunchError:
		s.launchesCompleted.WithLabelValues(method, evt.Result()).Inc()
		if evt.Dur > 0 {
			s.launchRuntime.WithLabelValues(method).Observe(evt.Dur.Seconds())
		}
		if s.tracker.complete(evt.LaunchID) {
			s.launchesRunning.Dec()
		}
	case progress.StagePlaceholder:
		s.placeholders.WithLabelValues(method).Inc()
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}

type launchTracker struct {
	mu      sync.Mutex
	running map[[16]byte]struct{}
}

func newLaunchTracker() *launchTracker {
	return &launchTracker{running: make(map[[16]byte]struct{})}
}

func (t *launchTracker) start(id [16]byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[id]; ok {
		return false
	}
	t.running[id] = struct{}{}
	return true
}

func (t *launchTracker) complete(id [16]byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[id]; !ok {
		return false
	}
	delete(t.running, id)
	return true
}
