// Package prom implements a Prometheus scrape backend for the metrics package.
package prom

import (
	"fmt"
	"net/http"

	"ev-dashboard/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backend keeps its collectors in a private registry served by Handler.
type Backend struct {
	reg *prometheus.Registry

	loadCounter  *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	rowCounter   *prometheus.CounterVec
	viewCounter  *prometheus.CounterVec
	viewDuration *prometheus.HistogramVec
}

// NewBackend registers the dashboard collectors on a fresh registry.
func NewBackend() (*Backend, error) {
	reg := prometheus.NewRegistry()

	b := &Backend{
		reg: reg,
		loadCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metrics.LoadTotal,
				Help: "Dataset load attempts, partitioned by status.",
			},
			[]string{"status"},
		),
		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metrics.LoadDuration,
				Help:    "Duration of dataset loads in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		rowCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metrics.RowsTotal,
				Help: "CSV rows per normalization outcome (raw, kept, dropped_missing, ...).",
			},
			[]string{"kind"},
		),
		viewCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metrics.ViewBuildTotal,
				Help: "Dashboard view builds, partitioned by cache hit or miss.",
			},
			[]string{"cache"},
		),
		viewDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metrics.ViewBuildDuration,
				Help:    "Duration of dashboard view builds in seconds.",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"cache"},
		),
	}

	for name, c := range map[string]prometheus.Collector{
		"load counter":  b.loadCounter,
		"load duration": b.loadDuration,
		"row counter":   b.rowCounter,
		"view counter":  b.viewCounter,
		"view duration": b.viewDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prom: register %s: %w", name, err)
		}
	}
	return b, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.LoadTotal:
		b.loadCounter.WithLabelValues(labels["status"]).Add(delta)
	case metrics.RowsTotal:
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.ViewBuildTotal:
		b.viewCounter.WithLabelValues(labels["cache"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	switch name {
	case metrics.LoadDuration:
		b.loadDuration.WithLabelValues(labels["status"]).Observe(value)
	case metrics.ViewBuildDuration:
		b.viewDuration.WithLabelValues(labels["cache"]).Observe(value)
	}
}

// Flush is a no-op; Prometheus scrapes Handler.
func (b *Backend) Flush() error { return nil }

// Handler serves the registry in the Prometheus exposition format.
func (b *Backend) Handler() http.Handler {
	return promhttp.HandlerFor(b.reg, promhttp.HandlerOpts{})
}
