// Package metrics records operational metrics for dataset loads and view
// builds behind a pluggable Backend. The default backend does nothing, so
// callers never need to check whether metrics are enabled.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Metric names understood by backends.
const (
	LoadTotal         = "evdash_load_total"
	LoadDuration      = "evdash_load_duration_seconds"
	RowsTotal         = "evdash_rows_total"
	ViewBuildTotal    = "evdash_view_build_total"
	ViewBuildDuration = "evdash_view_build_duration_seconds"
)

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil restores the no-op backend.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordLoad counts one dataset load attempt and its duration.
func RecordLoad(err error, d time.Duration) {
	lbls := Labels{"status": status(err)}
	backend.IncCounter(LoadTotal, 1, lbls)
	backend.ObserveHistogram(LoadDuration, d.Seconds(), lbls)
}

// RecordRows increments the row counter for a normalization outcome, e.g.
// "raw", "kept", "dropped_missing", "dropped_year", "range_defaulted".
func RecordRows(kind string, delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{"kind": kind})
}

// RecordViewBuild counts a view build; cache is "hit" or "miss".
func RecordViewBuild(cache string, d time.Duration) {
	lbls := Labels{"cache": cache}
	backend.IncCounter(ViewBuildTotal, 1, lbls)
	backend.ObserveHistogram(ViewBuildDuration, d.Seconds(), lbls)
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
