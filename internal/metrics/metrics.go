// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides Prometheus counters for filter calls and the
// avatar lookup cache.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters for one registry.
type Metrics struct {
	registry *prometheus.Registry

	// Filter metrics
	FilterCalls  *prometheus.CounterVec
	FilterErrors *prometheus.CounterVec

	// Lookup cache metrics
	LookupHits    prometheus.Counter
	LookupMisses  prometheus.Counter
	LookupEntries prometheus.Gauge

	entriesMu sync.Mutex
	entries   int
}

// New creates a Metrics instance on its own registry with the given
// namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FilterCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_calls_total",
			Help:      "Total number of template filter invocations",
		}, []string{"filter"}),
		FilterErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_errors_total",
			Help:      "Total number of template filter failures",
		}, []string{"filter"}),
		LookupHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_hits_total",
			Help:      "Avatar lookups served from the cache",
		}),
		LookupMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_misses_total",
			Help:      "Avatar lookups that derived a new URL",
		}),
		LookupEntries: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lookup_entries",
			Help:      "Entries held by the avatar lookup cache",
		}),
	}
}

// Observe records one filter call and, when err is non-nil, its failure.
func (m *Metrics) Observe(filter string, err error) {
	m.FilterCalls.WithLabelValues(filter).Inc()
	if err != nil {
		m.FilterErrors.WithLabelValues(filter).Inc()
	}
}

// Hit implements lookup.Observer.
func (m *Metrics) Hit() { m.LookupHits.Inc() }

// Miss implements lookup.Observer.
func (m *Metrics) Miss() { m.LookupMisses.Inc() }

// Stored implements lookup.Observer. The cache only grows, so a report
// smaller than one already seen arrived late and is ignored.
func (m *Metrics) Stored(entries int) {
	m.entriesMu.Lock()
	defer m.entriesMu.Unlock()
	if entries <= m.entries {
		return
	}
	m.entries = entries
	m.LookupEntries.Set(float64(entries))
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
