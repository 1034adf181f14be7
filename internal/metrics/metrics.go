// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package metrics exposes Prometheus instrumentation for the graph store.
package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "litegraph"

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// StatementsTotal counts executed statements by kind (query, exec, tx) and outcome.
	StatementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_total",
			Help:      "Total number of SQL statements executed",
		},
		[]string{"kind", "outcome"},
	)

	// StatementDuration measures statement latency, lock wait excluded.
	StatementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "statement_duration_seconds",
			Help:      "Duration of SQL statements in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"kind"},
	)

	// LockWaitDuration measures how long callers block on the repository mutexes.
	LockWaitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for repository locks in seconds",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		},
		[]string{"lock"},
	)

	// EntitiesCreated counts newly inserted rows by entity family.
	// Idempotent re-creates are not counted.
	EntitiesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_created_total",
			Help:      "Total number of entities inserted",
		},
		[]string{"entity"},
	)
)

// Observer receives repository instrumentation events.
type Observer interface {
	Statement(kind string, elapsed time.Duration, err error)
	LockWait(lock string, elapsed time.Duration)
	Created(entity string, n int)
}

// New returns the Prometheus observer when enabled, otherwise a no-op.
func New(enabled bool) Observer {
	if enabled {
		return Prometheus{}
	}
	return Noop{}
}

// Prometheus records events into the package-level collectors.
type Prometheus struct{}

func (Prometheus) Statement(kind string, elapsed time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	StatementsTotal.WithLabelValues(kind, outcome).Inc()
	StatementDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (Prometheus) LockWait(lock string, elapsed time.Duration) {
	LockWaitDuration.WithLabelValues(lock).Observe(elapsed.Seconds())
}

func (Prometheus) Created(entity string, n int) {
	if n > 0 {
		EntitiesCreated.WithLabelValues(entity).Add(float64(n))
	}
}

// Noop discards every event.
type Noop struct{}

func (Noop) Statement(string, time.Duration, error) {}
func (Noop) LockWait(string, time.Duration)         {}
func (Noop) Created(string, int)                    {}

// Sample is one flattened counter value or histogram observation count.
type Sample struct {
	Name   string  `json:"name" yaml:"name"`
	Labels string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  float64 `json:"value" yaml:"value"`
}

// Snapshot gathers the litegraph_* families from the default registry.
// Histograms report their sample count.
func Snapshot() ([]Sample, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, fam := range families {
		if !strings.HasPrefix(fam.GetName(), namespace+"_") {
			continue
		}
		for _, m := range fam.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(pairs)

			s := Sample{Name: fam.GetName(), Labels: strings.Join(pairs, ",")}
			switch {
			case m.GetCounter() != nil:
				s.Value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				s.Value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				s.Value = float64(m.GetHistogram().GetSampleCount())
			}
			out = append(out, s)
		}
	}
	return out, nil
}
