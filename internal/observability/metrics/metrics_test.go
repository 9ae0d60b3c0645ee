package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestFunnelMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFunnelMetrics(reg)
	m.ObserveStep("address", "next")
	m.ObserveSubmission("ok")
	m.ObserveOffer(true)
	m.ObserveSlotDecrement("decremented")
	m.ObservePropertyLookup("attom", "ok")
	m.ObserveBooking("qualified")
}

func TestFunnelMetricsNilSafe(t *testing.T) {
	var m *FunnelMetrics
	m.ObserveStep("address", "next")
	m.ObserveSubmission("ok")
	m.ObserveOffer(false)
	m.ObserveSlotDecrement("exhausted")
	m.ObservePropertyLookup("realtymole", "error")
	m.ObserveBooking("unqualified")
}
