package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics carries the relay's instrumentation. Components receive it at
// construction so tests can register against an isolated registry.
type Metrics struct {
	LiveConnections  prometheus.Gauge
	MessagesStored   prometheus.Counter
	MessagesLive     prometheus.Counter
	DeliveryFailures prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		LiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cryptochat_live_connections",
			Help: "Current number of registered live channels.",
		}),
		MessagesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cryptochat_messages_stored_total",
			Help: "Messages appended to conversation logs since start.",
		}),
		MessagesLive: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cryptochat_messages_delivered_live_total",
			Help: "Messages pushed to a live channel in addition to storage.",
		}),
		DeliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cryptochat_delivery_failures_total",
			Help: "Live deliveries that degraded to store-only.",
		}),
	}

	reg.MustRegister(
		m.LiveConnections,
		m.MessagesStored,
		m.MessagesLive,
		m.DeliveryFailures,
	)

	return m
}
