package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "txauth"

// Metrics holds the signing and validation counters.
type Metrics struct {
	signaturesCreated       prometheus.Counter
	validationsTotal        *prometheus.CounterVec
	ownerExtractionFailures *prometheus.CounterVec
}

// New creates the counters and registers them on reg. A nil reg leaves the
// counters unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		signaturesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signatures_created_total",
			Help:      "Total number of contract signatures produced",
		}),
		validationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total number of transaction validations by result",
		}, []string{"result"}),
		ownerExtractionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "owner_extraction_failures_total",
			Help:      "Total number of recognized contracts whose owner could not be decoded",
		}, []string{"contract_type"}),
	}
}

func (m *Metrics) SignaturesCreated(n int) {
	m.signaturesCreated.Add(float64(n))
}

func (m *Metrics) ValidationResult(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.validationsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) OwnerExtractionFailed(contractType string) {
	m.ownerExtractionFailures.WithLabelValues(contractType).Inc()
}

// Snapshot gathers the counters in g keyed as name{label=value,...}.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			c := m.GetCounter()
			if c == nil {
				continue
			}
			key := mf.GetName()
			if labels := m.GetLabel(); len(labels) > 0 {
				parts := make([]string, 0, len(labels))
				for _, l := range labels {
					parts = append(parts, l.GetName()+"="+l.GetValue())
				}
				key += "{" + strings.Join(parts, ",") + "}"
			}
			out[key] = c.GetValue()
		}
	}
	return out, nil
}
