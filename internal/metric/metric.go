// Package metric provides constructors for the unlabeled Prometheus
// counters and histograms used to track query execution, such as
// per-operation duration and count. Handlers that need labeled vectors
// (e.g. the HTTP middleware's per-route, per-caller counters) build
// those directly against prometheus/promauto instead, since labels are
// call-site-specific and don't fit a single shared constructor shape.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewHistogram returns a new Prometheus Histogram for execution time metrics.
func NewHistogram(name string, help string, start float64, factor float64, count int) prometheus.Histogram {
	return promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: prometheus.ExponentialBuckets(start, factor, count),
	})
}

// NewCounter returns a new Prometheus counter.
func NewCounter(name string, help string) prometheus.Counter {
	return promauto.NewCounter(prometheus.CounterOpts{
		Name: name,
		Help: help,
	})
}
