// Package metrics counts store activity with prometheus collectors on a
// private registry. There is no HTTP listener; WriteTextfile exports the
// registry for the node exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements store.Recorder.
type Metrics struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	items     prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shoplist",
				Subsystem: "store",
				Name:      "mutations_total",
				Help:      "Store mutation attempts by operation and result.",
			},
			[]string{"op", "result"},
		),
		items: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "shoplist",
				Subsystem: "store",
				Name:      "items",
				Help:      "Items in the last published snapshot.",
			},
		),
	}
	m.registry.MustRegister(m.mutations, m.items)
	return m
}

func (m *Metrics) Mutation(op, result string) {
	m.mutations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Items(n int) {
	m.items.Set(float64(n))
}

// Registry exposes the collectors, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the current values to path in the text exposition
// format, replacing the file atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
