package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"teeup-backend-go/internal/core"
	"teeup-backend-go/internal/events"
)

// Metrics tracks notification deliveries and routed change events.
type Metrics struct {
	Deliveries *prometheus.CounterVec
	Events     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_deliveries_total",
				Help: "Total number of notification attempts by category and terminal status",
			},
			[]string{"category", "status"},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "change_events_total",
				Help: "Total number of change events received by kind, source and result",
			},
			[]string{"kind", "source", "result"}, // result: handled, failed, unrouted
		),
	}
	reg.MustRegister(m.Deliveries, m.Events)
	return m
}

// ObserveDelivery implements core.DeliveryObserver.
func (m *Metrics) ObserveDelivery(_ context.Context, r core.DeliveryResult) {
	m.Deliveries.WithLabelValues(string(r.Category), string(r.Status)).Inc()
}

// ObserveEvent implements events.Observer.
func (m *Metrics) ObserveEvent(kind events.Kind, source string, err error) {
	result := "handled"
	switch {
	case errors.Is(err, events.ErrNoRoute):
		result = "unrouted"
	case err != nil:
		result = "failed"
	}
	m.Events.WithLabelValues(string(kind), source, result).Inc()
}
