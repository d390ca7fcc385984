// Package metrics owns the Prometheus registry for a discovery session and
// the session-level collectors that sit outside the launch event stream.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the registry and the session collectors registered on it.
type Metrics struct {
	reg *prometheus.Registry

	menuSelections *prometheus.CounterVec
	employees      *prometheus.GaugeVec
	syncs          *prometheus.CounterVec
}

// New builds a fresh registry with Go runtime collectors and the session
// collectors. Each call is independent, so tests never share state.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)
	return &Metrics{
		reg: reg,
		menuSelections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discovery_menu_selections_total",
				Help: `Menu entries, labeled by token or "invalid".`,
			},
			[]string{"token"},
		),
		employees: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "discovery_employees_consolidated",
				Help: "Employees in the last consolidation, labeled by confidence.",
			},
			[]string{"confidence"},
		),
		syncs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discovery_sync_runs_total",
				Help: "Repository sync attempts, labeled by result.",
			},
			[]string{"result"},
		),
	}
}

// Registry exposes the registry so sinks can register their collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveSelection counts one menu entry.
func (m *Metrics) ObserveSelection(token string) {
	if m == nil {
		return
	}
	m.menuSelections.WithLabelValues(token).Inc()
}

// ObserveConsolidation records the per-confidence totals of a consolidation run.
func (m *Metrics) ObserveConsolidation(byConfidence map[string]int) {
	if m == nil {
		return
	}
	m.employees.Reset()
	for confidence, n := range byConfidence {
		m.employees.WithLabelValues(confidence).Set(float64(n))
	}
}

// ObserveSync counts one sync attempt with its result label.
func (m *Metrics) ObserveSync(result string) {
	if m == nil {
		return
	}
	m.syncs.WithLabelValues(result).Inc()
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
