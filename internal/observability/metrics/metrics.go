package metrics

import "github.com/prometheus/client_golang/prometheus"

// FunnelMetrics exposes counters for the lead funnel and its supporting flows.
type FunnelMetrics struct {
	stepTransitions   *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	offerCalculations *prometheus.CounterVec
	slotDecrements    *prometheus.CounterVec
	propertyLookups   *prometheus.CounterVec
	bookings          *prometheus.CounterVec
}

func NewFunnelMetrics(reg prometheus.Registerer) *FunnelMetrics {
	m := &FunnelMetrics{
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashoffer",
			Subsystem: "funnel",
			Name:      "step_transitions_total",
			Help:      "Total funnel step transitions",
		}, []string{"step", "direction"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashoffer",
			Subsystem: "funnel",
			Name:      "submissions_total",
			Help:      "Total funnel submissions",
		}, []string{"status"}),
		offerCalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashoffer",
			Subsystem: "offer",
			Name:      "calculations_total",
			Help:      "Total offer calculations",
		}, []string{"degraded"}),
		slotDecrements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashoffer",
			Subsystem: "slots",
			Name:      "decrements_total",
			Help:      "Total slot counter decrements",
		}, []string{"outcome"}),
		propertyLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashoffer",
			Subsystem: "property",
			Name:      "lookups_total",
			Help:      "Total property data lookups",
		}, []string{"provider", "status"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cashoffer",
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Total appointment booking attempts",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.stepTransitions,
		m.submissions,
		m.offerCalculations,
		m.slotDecrements,
		m.propertyLookups,
		m.bookings,
	)
	return m
}

func (m *FunnelMetrics) ObserveStep(step, direction string) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(step, direction).Inc()
}

func (m *FunnelMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(status).Inc()
}

func (m *FunnelMetrics) ObserveOffer(degraded bool) {
	if m == nil {
		return
	}
	label := "false"
	if degraded {
		label = "true"
	}
	m.offerCalculations.WithLabelValues(label).Inc()
}

func (m *FunnelMetrics) ObserveSlotDecrement(outcome string) {
	if m == nil {
		return
	}
	m.slotDecrements.WithLabelValues(outcome).Inc()
}

func (m *FunnelMetrics) ObservePropertyLookup(provider, status string) {
	if m == nil {
		return
	}
	m.propertyLookups.WithLabelValues(provider, status).Inc()
}

func (m *FunnelMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
}
