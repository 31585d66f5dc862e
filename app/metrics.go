package app

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts delivered transactions and measures how long they take.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	height   prometheus.Gauge
}

// NewMetrics creates the collectors under given namespace and registers
// them with reg. A nil reg leaves them unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "transactions_total",
			Help:      "Count of delivered transactions by message path and result code.",
		}, []string{"path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "deliver_duration_seconds",
			Help:      "Time spent delivering a transaction, commit included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "height",
			Help:      "Last committed version of the store.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.txs, m.duration, m.height)
	}
	return m
}

func (m *Metrics) observe(path string, code uint32, start time.Time) {
	if m == nil {
		return
	}
	m.txs.WithLabelValues(path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(path).Observe(time.Since(start).Seconds())
}

func (m *Metrics) setHeight(h int64) {
	if m == nil {
		return
	}
	m.height.Set(float64(h))
}
