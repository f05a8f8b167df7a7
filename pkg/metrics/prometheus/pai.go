package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/wgps/pkg/metrics"
)

// paiMetrics is the Prometheus implementation of metrics.PAIMetrics.
type paiMetrics struct {
	fragmentsSubmitted *prometheus.CounterVec
	bindsSent          *prometheus.CounterVec
	bindsReceived      *prometheus.CounterVec
	intersections      *prometheus.CounterVec
	subspaceRequests   prometheus.Counter
}

// NewPAIMetrics creates a new Prometheus-backed PAI metrics instance, or nil
// if metrics are not enabled.
func NewPAIMetrics() metrics.PAIMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &paiMetrics{
		fragmentsSubmitted: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_pai_fragments_submitted_total",
				Help: "Total fragments produced by submit_authorisation, by kind",
			},
			[]string{"kind"},
		),
		bindsSent: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_pai_binds_sent_total",
				Help: "Total PaiBindFragment messages sent, by kind",
			},
			[]string{"kind"},
		),
		bindsReceived: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_pai_binds_received_total",
				Help: "Total PaiBindFragment messages received, by kind",
			},
			[]string{"kind"},
		),
		intersections: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_pai_intersections_total",
				Help: "Total fragment intersections found, by resulting on_intersection action",
			},
			[]string{"on_intersection"},
		),
		subspaceRequests: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "wgps_pai_subspace_cap_requests_total",
				Help: "Total PaiRequestSubspaceCapability messages sent",
			},
		),
	}
}

func (m *paiMetrics) RecordFragmentSubmitted(kind string) {
	if m == nil {
		return
	}
	m.fragmentsSubmitted.WithLabelValues(kind).Inc()
}

func (m *paiMetrics) RecordBindSent(kind string) {
	if m == nil {
		return
	}
	m.bindsSent.WithLabelValues(kind).Inc()
}

func (m *paiMetrics) RecordBindReceived(kind string) {
	if m == nil {
		return
	}
	m.bindsReceived.WithLabelValues(kind).Inc()
}

func (m *paiMetrics) RecordIntersectionFound(onIntersection string) {
	if m == nil {
		return
	}
	m.intersections.WithLabelValues(onIntersection).Inc()
}

func (m *paiMetrics) RecordSubspaceCapRequested() {
	if m == nil {
		return
	}
	m.subspaceRequests.Inc()
}
