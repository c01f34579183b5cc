// Package metrics exposes dungeon respawn counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dungeonrespawn"

// Collector implements respawn.Recorder on a private Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	decisions   *prometheus.CounterVec
	enqueued    prometheus.Counter
	storeErrors *prometheus.CounterVec
	tracked     prometheus.Gauge
	queued      prometheus.Gauge
}

// NewCollector creates a Collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "teleport_decisions_total",
			Help:      "Teleport requests evaluated, by gate reason and outcome.",
		}, []string{"reason", "outcome"}),
		enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_enqueued_total",
			Help:      "Characters queued for an entrance redirect.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed entrance store operations.",
		}, []string{"op"}),
		tracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_characters",
			Help:      "Characters with a respawn record in memory.",
		}),
		queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queued_characters",
			Help:      "Characters waiting for a redirect decision.",
		}),
	}
	c.registry.MustRegister(c.decisions, c.enqueued, c.storeErrors, c.tracked, c.queued)
	return c
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// TeleportDecision counts one gate verdict.
func (c *Collector) TeleportDecision(reason string, redirected bool) {
	outcome := "allow"
	if redirected {
		outcome = "redirect"
	}
	c.decisions.WithLabelValues(reason, outcome).Inc()
}

// Enqueued counts one queued character.
func (c *Collector) Enqueued() {
	c.enqueued.Inc()
}

// StoreError counts a failed load or save.
func (c *Collector) StoreError(op string) {
	c.storeErrors.WithLabelValues(op).Inc()
}

// Population sets the tracked and queued gauges.
func (c *Collector) Population(tracked, queued int) {
	c.tracked.Set(float64(tracked))
	c.queued.Set(float64(queued))
}
