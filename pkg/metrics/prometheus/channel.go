// Package prometheus provides Prometheus-backed implementations of the
// interfaces defined in pkg/metrics.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/wgps/pkg/metrics"
)

// channelMetrics is the Prometheus implementation of metrics.ChannelMetrics.
type channelMetrics struct {
	credit             *prometheus.GaugeVec
	guaranteesIssued   *prometheus.CounterVec
	guaranteesAbsolved *prometheus.CounterVec
	pleads             *prometheus.CounterVec
	dropped            *prometheus.CounterVec
}

// NewChannelMetrics creates a new Prometheus-backed channel metrics
// instance, or nil if metrics are not enabled.
func NewChannelMetrics() metrics.ChannelMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &channelMetrics{
		credit: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wgps_channel_credit",
				Help: "Outstanding guarantee balance per logical channel",
			},
			[]string{"channel"},
		),
		guaranteesIssued: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_channel_guarantees_issued_total",
				Help: "Total guarantee amount issued per logical channel",
			},
			[]string{"channel"},
		),
		guaranteesAbsolved: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_channel_guarantees_absolved_total",
				Help: "Total guarantee amount absolved per logical channel",
			},
			[]string{"channel"},
		),
		pleads: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_channel_pleads_total",
				Help: "Total Plead messages per logical channel",
			},
			[]string{"channel"},
		),
		dropped: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_channel_dropped_total",
				Help: "Total AnnounceDropping/Apologise exchanges per logical channel",
			},
			[]string{"channel"},
		),
	}
}

func (m *channelMetrics) SetCredit(channel string, credit uint64) {
	if m == nil {
		return
	}
	m.credit.WithLabelValues(channel).Set(float64(credit))
}

func (m *channelMetrics) RecordGuaranteeIssued(channel string, amount uint64) {
	if m == nil {
		return
	}
	m.guaranteesIssued.WithLabelValues(channel).Add(float64(amount))
}

func (m *channelMetrics) RecordGuaranteeAbsolved(channel string, amount uint64) {
	if m == nil {
		return
	}
	m.guaranteesAbsolved.WithLabelValues(channel).Add(float64(amount))
}

func (m *channelMetrics) RecordPlead(channel string) {
	if m == nil {
		return
	}
	m.pleads.WithLabelValues(channel).Inc()
}

func (m *channelMetrics) RecordDropped(channel string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(channel).Inc()
}
