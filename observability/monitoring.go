// Package observability aggregates the service counters exposed on the
// debug endpoint.
package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors for the bulletin board. All
// collectors live on the registerer passed at construction time, never on
// the global default registry.
type Metrics struct {
	log *slog.Logger

	SessionsConnected prometheus.Gauge
	SessionsTotal     prometheus.Counter
	MessagesPosted    prometheus.Counter
	LinesDelivered    prometheus.Counter
	CommandErrors     prometheus.Counter
}

func NewMetrics(log *slog.Logger, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		log: log,
		SessionsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_sessions_connected",
			Help: "Sessions currently connected.",
		}),
		SessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "board_sessions_total",
			Help: "Sessions accepted since startup.",
		}),
		MessagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "board_messages_posted_total",
			Help: "Messages appended to any group log.",
		}),
		LinesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "board_broadcast_lines_delivered_total",
			Help: "Broadcast lines actually delivered to member sessions.",
		}),
		CommandErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "board_command_errors_total",
			Help: "Protocol lines answered with an inline error.",
		}),
	}
	reg.MustRegister(m.SessionsConnected, m.SessionsTotal, m.MessagesPosted, m.LinesDelivered, m.CommandErrors)
	return m
}

func (m *Metrics) SessionOpened() {
	m.SessionsConnected.Inc()
	m.SessionsTotal.Inc()
}

func (m *Metrics) SessionClosed() {
	m.SessionsConnected.Dec()
}

func (m *Metrics) MessagePosted() {
	m.MessagesPosted.Inc()
}

func (m *Metrics) Delivered(n int) {
	m.LinesDelivered.Add(float64(n))
}

func (m *Metrics) CommandError() {
	m.CommandErrors.Inc()
}
