package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/internal/session"
)

// Metrics holds the gateway's Prometheus collectors on a private registry,
// so tests can run multiple gateways without collector collisions.
type Metrics struct {
	registry *prometheus.Registry

	turns           *prometheus.CounterVec
	turnErrors      prometheus.Counter
	composeDuration prometheus.Histogram
}

// NewMetrics creates and registers the collectors. Active sessions and
// knowledge entries are exported as gauge functions reading the live stores.
func NewMetrics(sessions session.Store, store *knowledge.Store) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "chat_turns_total",
			Help:      "Chat turns processed, by classified intent.",
		}, []string{"intent"}),
		turnErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "chat_turn_errors_total",
			Help:      "Chat turns that ended in an upstream-error response.",
		}),
		composeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "concierge",
			Name:      "compose_duration_seconds",
			Help:      "Time spent in search and response composition per turn.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.turns, m.turnErrors, m.composeDuration)

	if sessions != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "concierge",
			Name:      "active_sessions",
			Help:      "Currently active conversation sessions.",
		}, func() float64 { return float64(sessions.Len()) }))
	}
	if store != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "concierge",
			Name:      "knowledge_entries",
			Help:      "Entries currently in the knowledge store.",
		}, func() float64 { return float64(store.Len()) }))
	}

	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
