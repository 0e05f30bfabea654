package metrics

import "github.com/prometheus/client_golang/prometheus"

// FulfillmentMetrics tracks pledge fulfillment outcomes and verification results.
type FulfillmentMetrics struct {
	outcomes   *prometheus.CounterVec
	mismatches prometheus.Counter
}

// NewFulfillmentMetrics registers fulfillment counters on the provided registerer.
func NewFulfillmentMetrics(reg prometheus.Registerer) *FulfillmentMetrics {
	if reg == nil {
		return &FulfillmentMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pledge_fulfillment_total",
		Help: "Pledge fulfillment attempts by outcome.",
	}, []string{"outcome"})
	mismatches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_reconciliation_mismatch_total",
		Help: "Request counters that stayed short after verification and catch-up.",
	})
	reg.MustRegister(outcomes, mismatches)
	return &FulfillmentMetrics{
		outcomes:   outcomes,
		mismatches: mismatches,
	}
}

// IncOutcome increments the counter for a fulfillment outcome.
func (f *FulfillmentMetrics) IncOutcome(outcome string) {
	if f == nil || f.outcomes == nil {
		return
	}
	f.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncMismatch records a persistent reconciliation mismatch.
func (f *FulfillmentMetrics) IncMismatch() {
	if f == nil || f.mismatches == nil {
		return
	}
	f.mismatches.Inc()
}
