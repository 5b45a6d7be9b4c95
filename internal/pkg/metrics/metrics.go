/*
Package metrics exposes hub telemetry in Prometheus format.

Metrics owns a private registry so tests and multiple servers in one process do not collide on
the global default registerer.
*/
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rtcrelay"

// Metrics implements the hub recorder on top of a Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	connections  prometheus.Gauge
	users        prometheus.Gauge
	broadcasters prometheus.Gauge
	messages     prometheus.Gauge

	events        *prometheus.CounterVec
	signals       *prometheus.CounterVec
	slotDecisions *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Open WebSocket connections.",
		}),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "users",
			Help:      "Initialized users in the roster.",
		}),
		broadcasters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_broadcasters",
			Help:      "Occupied broadcast slots.",
		}),
		messages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "messages",
			Help:      "Chat messages held in memory.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Client events processed by the hub.",
		}, []string{"event"}),
		signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_total",
			Help:      "Signaling payloads by kind and delivery outcome.",
		}, []string{"kind", "delivered"}),
		slotDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_requests_total",
			Help:      "Broadcast slot requests by decision.",
		}, []string{"decision"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.connections,
		m.users,
		m.broadcasters,
		m.messages,
		m.events,
		m.signals,
		m.slotDecisions,
	)

	return m
}

// EventReceived counts one client event by name.
func (m *Metrics) EventReceived(event string) {
	m.events.WithLabelValues(event).Inc()
}

// SignalRelayed counts one offer, answer or candidate by kind and whether it reached its target.
func (m *Metrics) SignalRelayed(kind string, delivered bool) {
	m.signals.WithLabelValues(kind, strconv.FormatBool(delivered)).Inc()
}

// SlotRequested counts one broadcast slot request by decision.
func (m *Metrics) SlotRequested(decision string) {
	m.slotDecisions.WithLabelValues(decision).Inc()
}

// Gauges sets the hub size gauges to the values observed after the last event.
func (m *Metrics) Gauges(connections, users, broadcasters, messages int) {
	m.connections.Set(float64(connections))
	m.users.Set(float64(users))
	m.broadcasters.Set(float64(broadcasters))
	m.messages.Set(float64(messages))
}

// Handler serves the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
