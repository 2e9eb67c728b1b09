// Package metrics exposes counters, gauges and histograms for the engine's
// garbage collector and canonical table (SPEC_FULL.md §4.7). It
// starts in a no-op state so a library embedder that never calls
// InitializePrometheusMetrics pays no cost and exposes no endpoint;
// InitializePrometheusMetrics switches every subsequently-created (and
// previously lazy-loaded) meter onto github.com/prometheus/client_golang.
package metrics

import "net/http"

const namePrefix = "mtbdd_"

// CounterMeter accumulates a monotonically increasing count.
type CounterMeter interface {
	Add(n int64)
}

// CounterVecMeter is a CounterMeter partitioned by label values.
type CounterVecMeter interface {
	AddWithLabel(n int64, labels map[string]string)
}

// GaugeMeter holds a value that can move in either direction.
type GaugeMeter interface {
	Add(n int64)
}

// GaugeVecMeter is a GaugeMeter partitioned by label values.
type GaugeVecMeter interface {
	AddWithLabel(n int64, labels map[string]string)
}

// HistogramMeter records observations into buckets.
type HistogramMeter interface {
	Observe(n int64)
}

// HistogramVecMeter is a HistogramMeter partitioned by label values.
type HistogramVecMeter interface {
	ObserveWithLabels(n int64, labels map[string]string)
}

// registry is the backend every package-level accessor delegates to. There
// are exactly two implementations: noopRegistry (the default) and
// promRegistry (installed by InitializePrometheusMetrics).
type registry interface {
	counter(name string) CounterMeter
	counterVec(name string, labels []string) CounterVecMeter
	gauge(name string) GaugeMeter
	gaugeVec(name string, labels []string) GaugeVecMeter
	histogram(name string, buckets []int64) HistogramMeter
	histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	httpHandler() http.Handler
}

var metrics registry = defaultNoopMetrics()

// Counter returns the named counter, creating it on first use.
func Counter(name string) CounterMeter { return metrics.counter(name) }

// CounterVec returns the named label-partitioned counter.
func CounterVec(name string, labels []string) CounterVecMeter { return metrics.counterVec(name, labels) }

// Gauge returns the named gauge, creating it on first use.
func Gauge(name string) GaugeMeter { return metrics.gauge(name) }

// GaugeVec returns the named label-partitioned gauge.
func GaugeVec(name string, labels []string) GaugeVecMeter { return metrics.gaugeVec(name, labels) }

// Histogram returns the named histogram. A nil buckets slice uses the
// backend's default bucket boundaries.
func Histogram(name string, buckets []int64) HistogramMeter { return metrics.histogram(name, buckets) }

// HistogramVec returns the named label-partitioned histogram.
func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.histogramVec(name, labels, buckets)
}

// HTTPHandler serves the current backend's scrape endpoint: a 404 handler
// in the default no-op state, promhttp.Handler() once Prometheus metrics
// have been initialized.
func HTTPHandler() http.Handler { return metrics.httpHandler() }

// LazyLoadCounter defers the Counter lookup until the returned func is
// first called, so a package-level var can reference a metric defined
// before InitializePrometheusMetrics runs and still resolve to the real
// backend once it does.
func LazyLoadCounter(name string) func() CounterMeter {
	return func() CounterMeter { return Counter(name) }
}

// LazyLoadCounterVec is LazyLoadCounter for CounterVec.
func LazyLoadCounterVec(name string, labels []string) func() CounterVecMeter {
	return func() CounterVecMeter { return CounterVec(name, labels) }
}

// LazyLoadGauge is LazyLoadCounter for Gauge.
func LazyLoadGauge(name string) func() GaugeMeter {
	return func() GaugeMeter { return Gauge(name) }
}

// LazyLoadGaugeVec is LazyLoadCounter for GaugeVec.
func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return func() GaugeVecMeter { return GaugeVec(name, labels) }
}

// LazyLoadHistogram is LazyLoadCounter for Histogram.
func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return func() HistogramMeter { return Histogram(name, buckets) }
}

// LazyLoadHistogramVec is LazyLoadCounter for HistogramVec.
func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return func() HistogramVecMeter { return HistogramVec(name, labels, buckets) }
}
