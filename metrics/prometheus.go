package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultBuckets mirrors prometheus.DefBuckets; used whenever a caller
// passes a nil buckets slice to Histogram/HistogramVec.
var defaultBuckets = prometheus.DefBuckets

func toFloatBuckets(buckets []int64) []float64 {
	if len(buckets) == 0 {
		return defaultBuckets
	}
	out := make([]float64, len(buckets))
	for i, b := range buckets {
		out[i] = float64(b)
	}
	return out
}

// InitializePrometheusMetrics installs the Prometheus-backed registry as
// the package's active backend. Safe to call once at process start; later
// lazy-loaded accessors (LazyLoad*) resolve against whichever backend is
// active at call time.
func InitializePrometheusMetrics() {
	metrics = &promRegistry{}
}

type promRegistry struct {
	counters     sync.Map // name -> prometheus.Counter
	counterVecs  sync.Map // name -> *prometheus.CounterVec
	gauges       sync.Map // name -> prometheus.Gauge
	gaugeVecs    sync.Map // name -> *prometheus.GaugeVec
	histograms   sync.Map // name -> prometheus.Histogram
	histogramVec sync.Map // name -> *prometheus.HistogramVec
}

func (r *promRegistry) counter(name string) CounterMeter {
	v, ok := r.counters.Load(name)
	if !ok {
		c := prometheus.NewCounter(prometheus.CounterOpts{Name: namePrefix + name})
		prometheus.MustRegister(c)
		v, _ = r.counters.LoadOrStore(name, c)
	}
	return &promCountMeter{v.(prometheus.Counter)}
}

func (r *promRegistry) counterVec(name string, labels []string) CounterVecMeter {
	v, ok := r.counterVecs.Load(name)
	if !ok {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Name: namePrefix + name}, labels)
		prometheus.MustRegister(c)
		v, _ = r.counterVecs.LoadOrStore(name, c)
	}
	return &promCountVecMeter{v.(*prometheus.CounterVec)}
}

func (r *promRegistry) gauge(name string) GaugeMeter {
	v, ok := r.gauges.Load(name)
	if !ok {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Name: namePrefix + name})
		prometheus.MustRegister(g)
		v, _ = r.gauges.LoadOrStore(name, g)
	}
	return &promGaugeMeter{v.(prometheus.Gauge)}
}

func (r *promRegistry) gaugeVec(name string, labels []string) GaugeVecMeter {
	v, ok := r.gaugeVecs.Load(name)
	if !ok {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: namePrefix + name}, labels)
		prometheus.MustRegister(g)
		v, _ = r.gaugeVecs.LoadOrStore(name, g)
	}
	return &promGaugeVecMeter{v.(*prometheus.GaugeVec)}
}

func (r *promRegistry) histogram(name string, buckets []int64) HistogramMeter {
	v, ok := r.histograms.Load(name)
	if !ok {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{Name: namePrefix + name, Buckets: toFloatBuckets(buckets)})
		prometheus.MustRegister(h)
		v, _ = r.histograms.LoadOrStore(name, h)
	}
	return &promHistogramMeter{v.(prometheus.Histogram)}
}

func (r *promRegistry) histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	v, ok := r.histogramVec.Load(name)
	if !ok {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: namePrefix + name, Buckets: toFloatBuckets(buckets)}, labels)
		prometheus.MustRegister(h)
		v, _ = r.histogramVec.LoadOrStore(name, h)
	}
	return &promHistogramVecMeter{v.(*prometheus.HistogramVec)}
}

func (r *promRegistry) httpHandler() http.Handler { return promhttp.Handler() }

type promCountMeter struct{ c prometheus.Counter }

func (m *promCountMeter) Add(n int64) { m.c.Add(float64(n)) }

type promCountVecMeter struct{ v *prometheus.CounterVec }

func (m *promCountVecMeter) AddWithLabel(n int64, labels map[string]string) {
	m.v.With(labels).Add(float64(n))
}

type promGaugeMeter struct{ g prometheus.Gauge }

func (m *promGaugeMeter) Add(n int64) { m.g.Add(float64(n)) }

type promGaugeVecMeter struct{ v *prometheus.GaugeVec }

func (m *promGaugeVecMeter) AddWithLabel(n int64, labels map[string]string) {
	m.v.With(labels).Add(float64(n))
}

type promHistogramMeter struct{ h prometheus.Histogram }

func (m *promHistogramMeter) Observe(n int64) { m.h.Observe(float64(n)) }

type promHistogramVecMeter struct{ v *prometheus.HistogramVec }

func (m *promHistogramVecMeter) ObserveWithLabels(n int64, labels map[string]string) {
	m.v.With(labels).Observe(float64(n))
}
