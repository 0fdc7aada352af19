package validation

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts validation runs and findings. A nil *Metrics records
// nothing.
type Metrics struct {
	checks   *prometheus.CounterVec // gate, outcome
	findings *prometheus.CounterVec // rule, severity
}

// NewMetrics creates validation metrics and registers them with reg. A nil
// registry disables metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &Metrics{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sbolgraph",
			Subsystem: "validation",
			Name:      "checks_total",
			Help:      "Total number of gate checks by outcome",
		}, []string{"gate", "outcome"}), // outcome: valid, invalid
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sbolgraph",
			Subsystem: "validation",
			Name:      "findings_total",
			Help:      "Total number of validation findings",
		}, []string{"rule", "severity"}),
	}

	for _, c := range []prometheus.Collector{m.checks, m.findings} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) record(r *Report) {
	if m == nil {
		return
	}
	outcome := "valid"
	if !r.Valid {
		outcome = "invalid"
	}
	m.checks.WithLabelValues(string(r.Gate), outcome).Inc()
	for _, f := range r.Findings {
		m.findings.WithLabelValues(f.Rule, string(f.Severity)).Inc()
	}
}
