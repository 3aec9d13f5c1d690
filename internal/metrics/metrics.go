package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bship"

// Metrics holds the server's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	Commands          *prometheus.CounterVec
	Shots             *prometheus.CounterVec
	GamesFinished     prometheus.Counter
	ActiveRooms       prometheus.Gauge
	ActiveConnections prometheus.Gauge
	HTTPRequests      *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Commands received from clients by type and outcome",
			},
			[]string{"command", "outcome"},
		),
		Shots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shots_total",
				Help:      "Resolved shots by result",
			},
			[]string{"result"},
		),
		GamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that ended with a sunk fleet",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Rooms with at least one connection",
		}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Open client connections",
		}),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method and status code",
			},
			[]string{"method", "status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Commands,
		m.Shots,
		m.GamesFinished,
		m.ActiveRooms,
		m.ActiveConnections,
		m.HTTPRequests,
	)
	return m
}

// CommandHandled counts a client command as accepted or rejected
func (m *Metrics) CommandHandled(command string, err error) {
	outcome := "accepted"
	if err != nil {
		outcome = "rejected"
	}
	m.Commands.WithLabelValues(command, outcome).Inc()
}

// ShotResolved counts a shot as miss, hit or sunk
func (m *Metrics) ShotResolved(hit, sunk bool) {
	switch {
	case sunk:
		m.Shots.WithLabelValues("sunk").Inc()
	case hit:
		m.Shots.WithLabelValues("hit").Inc()
	default:
		m.Shots.WithLabelValues("miss").Inc()
	}
}

// Registry exposes the registry for tests and additional collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
