package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "oassync"

// Metrics instruments a Store. A nil *Metrics records nothing.
type Metrics struct {
	lookups      *prometheus.CounterVec
	flushes      *prometheus.CounterVec
	openFailures *prometheus.CounterVec
	entries      prometheus.Gauge
}

// NewMetrics registers the cache metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by result (hit, miss).",
		}, []string{"result"}),
		flushes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "flushes_total",
			Help:      "Cache file writes by result (ok, error).",
		}, []string{"result"}),
		openFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "open_failures_total",
			Help:      "Cache files discarded on open, by reason.",
		}, []string{"reason"}),
		entries: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Entries held by open cache stores.",
		}),
	}
}

func (m *Metrics) lookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.lookups.WithLabelValues("hit").Inc()
	} else {
		m.lookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) flush(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.flushes.WithLabelValues("error").Inc()
	} else {
		m.flushes.WithLabelValues("ok").Inc()
	}
}

func (m *Metrics) openFailure(reason string) {
	if m == nil {
		return
	}
	m.openFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) addEntries(delta int) {
	if m == nil || delta == 0 {
		return
	}
	m.entries.Add(float64(delta))
}
