package metrics

import "net/http"

// noopMeters satisfies every meter interface with a no-op: the default
// backend before InitializePrometheusMetrics is called.
type noopMeters struct{}

func (*noopMeters) Add(int64)                                  {}
func (*noopMeters) AddWithLabel(int64, map[string]string)      {}
func (*noopMeters) Observe(int64)                               {}
func (*noopMeters) ObserveWithLabels(int64, map[string]string) {}

var shared = &noopMeters{}

type noopRegistry struct{}

func defaultNoopMetrics() registry { return noopRegistry{} }

func (noopRegistry) counter(string) CounterMeter                    { return shared }
func (noopRegistry) counterVec(string, []string) CounterVecMeter    { return shared }
func (noopRegistry) gauge(string) GaugeMeter                        { return shared }
func (noopRegistry) gaugeVec(string, []string) GaugeVecMeter        { return shared }
func (noopRegistry) histogram(string, []int64) HistogramMeter       { return shared }
func (noopRegistry) histogramVec(string, []string, []int64) HistogramVecMeter {
	return shared
}
func (noopRegistry) httpHandler() http.Handler { return http.NotFoundHandler() }
