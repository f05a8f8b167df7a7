package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/wgps/pkg/metrics"
)

// handleMetrics is the Prometheus implementation of metrics.HandleMetrics.
type handleMetrics struct {
	bound  *prometheus.CounterVec
	freed  *prometheus.CounterVec
	active *prometheus.GaugeVec
}

// NewHandleMetrics creates a new Prometheus-backed handle store metrics
// instance, or nil if metrics are not enabled.
func NewHandleMetrics() metrics.HandleMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &handleMetrics{
		bound: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_handles_bound_total",
				Help: "Total handles bound, by kind",
			},
			[]string{"kind"},
		),
		freed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_handles_freed_total",
				Help: "Total handles freed, by kind",
			},
			[]string{"kind"},
		),
		active: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wgps_handles_active",
				Help: "Currently live handles, by kind",
			},
			[]string{"kind"},
		),
	}
}

func (m *handleMetrics) RecordBound(kind string) {
	if m == nil {
		return
	}
	m.bound.WithLabelValues(kind).Inc()
}

func (m *handleMetrics) RecordFreed(kind string) {
	if m == nil {
		return
	}
	m.freed.WithLabelValues(kind).Inc()
}

func (m *handleMetrics) SetActive(kind string, count int) {
	if m == nil {
		return
	}
	m.active.WithLabelValues(kind).Set(float64(count))
}
