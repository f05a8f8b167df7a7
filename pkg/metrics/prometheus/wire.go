package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/wgps/pkg/metrics"
)

// wireMetrics is the Prometheus implementation of metrics.WireMetrics.
type wireMetrics struct {
	decoded      *prometheus.CounterVec
	decodeErrors *prometheus.CounterVec
	bytesRead    prometheus.Counter
	bytesWritten prometheus.Counter
}

// NewWireMetrics creates a new Prometheus-backed wire codec metrics
// instance, or nil if metrics are not enabled.
func NewWireMetrics() metrics.WireMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &wireMetrics{
		decoded: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_wire_messages_decoded_total",
				Help: "Total messages decoded, by message kind",
			},
			[]string{"message_kind"},
		),
		decodeErrors: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wgps_wire_decode_errors_total",
				Help: "Total decode failures, by reason",
			},
			[]string{"reason"},
		),
		bytesRead: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "wgps_wire_bytes_read_total",
				Help: "Total bytes consumed from the transport",
			},
		),
		bytesWritten: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "wgps_wire_bytes_written_total",
				Help: "Total bytes written to the transport",
			},
		),
	}
}

func (m *wireMetrics) RecordDecoded(messageKind string) {
	if m == nil {
		return
	}
	m.decoded.WithLabelValues(messageKind).Inc()
}

func (m *wireMetrics) RecordDecodeError(reason string) {
	if m == nil {
		return
	}
	m.decodeErrors.WithLabelValues(reason).Inc()
}

func (m *wireMetrics) RecordBytesRead(n int) {
	if m == nil {
		return
	}
	m.bytesRead.Add(float64(n))
}

func (m *wireMetrics) RecordBytesWritten(n int) {
	if m == nil {
		return
	}
	m.bytesWritten.Add(float64(n))
}
