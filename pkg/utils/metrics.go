// Package utils holds the metrics exporter and small shared helpers.
package utils

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const defaultShutdownTimeout = 5 * time.Second

// Metrics publishes training progress for Prometheus to scrape.
type Metrics struct {
	registry *prometheus.Registry

	episodeReturn prometheus.Gauge
	epsilon       prometheus.Gauge
	episodesTotal prometheus.Counter
	stepsTotal    prometheus.Counter

	server *http.Server
}

// NewMetrics returns a new Metrics with its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		episodeReturn: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dqn_episode_return",
			Help: "Return of the most recently finished episode.",
		}),
		epsilon: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dqn_epsilon",
			Help: "Current exploration rate of the agent.",
		}),
		episodesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dqn_episodes_total",
			Help: "Number of training episodes finished.",
		}),
		stepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dqn_env_steps_total",
			Help: "Number of environment steps taken.",
		}),
	}
	m.registry.MustRegister(m.episodeReturn, m.epsilon, m.episodesTotal, m.stepsTotal)
	return m
}

// ObserveEpisode records the outcome of a finished episode.
func (m *Metrics) ObserveEpisode(score float64, steps int, epsilon float32) {
	m.episodeReturn.Set(score)
	m.epsilon.Set(float64(epsilon))
	m.episodesTotal.Inc()
	m.stepsTotal.Add(float64(steps))
}

// Handler returns the scrape handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts the metrics listener on addr. It does not block.
func (m *Metrics) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	m.server = &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("metrics listener: %v", err)
		}
	}()
	logrus.Infof("serving metrics on %s/metrics", addr)
}

// Close shuts the metrics listener down.
func (m *Metrics) Close() error {
	if m.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	return m.server.Shutdown(ctx)
}
