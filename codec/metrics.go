package codec

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for codec operations. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	triplesRead    prometheus.Counter
	triplesWritten prometheus.Counter
	warnings       *prometheus.CounterVec // By warning type
	failures       *prometheus.CounterVec // By operation

	duration *prometheus.HistogramVec // By operation: serialize, deserialize
}

// NewMetrics creates codec metrics and registers them with reg. A nil
// registry disables metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &Metrics{
		triplesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sbolgraph",
			Subsystem: "codec",
			Name:      "triples_read_total",
			Help:      "Total number of triples consumed by the deserializer",
		}),
		triplesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sbolgraph",
			Subsystem: "codec",
			Name:      "triples_written_total",
			Help:      "Total number of triples emitted by the serializer",
		}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sbolgraph",
			Subsystem: "codec",
			Name:      "warnings_total",
			Help:      "Total number of non-fatal deserialization warnings",
		}, []string{"type"}), // type: unrecognized_predicate, untyped_subject, unresolved_reference, invalid_value
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sbolgraph",
			Subsystem: "codec",
			Name:      "failures_total",
			Help:      "Total number of failed codec operations",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sbolgraph",
			Subsystem: "codec",
			Name:      "duration_seconds",
			Help:      "Codec operation duration in seconds",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{m.triplesRead, m.triplesWritten, m.warnings, m.failures, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) read() {
	if m != nil {
		m.triplesRead.Inc()
	}
}

func (m *Metrics) written() {
	if m != nil {
		m.triplesWritten.Inc()
	}
}

func (m *Metrics) warning(kind string) {
	if m != nil {
		m.warnings.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.failures.WithLabelValues(op).Inc()
	}
}
