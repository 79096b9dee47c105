package instrumentation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "k8s_slack_bridge"

// Metrics tracks command dispatch outcomes and latency.
type Metrics struct {
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
}

// NewMetrics registers the dispatch collectors with reg and returns the
// metrics handle. Passing prometheus.DefaultRegisterer wires the default
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		commandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Dispatched commands by name, source and outcome.",
		}, []string{"command", "source", "outcome"}),
		commandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command dispatch latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command", "source"}),
	}
}

// ObserveCommand records one completed dispatch. Outcome is "ok" for
// success or the error kind for failures.
func (m *Metrics) ObserveCommand(command, source, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commandsTotal.WithLabelValues(command, source, outcome).Inc()
	m.commandDuration.WithLabelValues(command, source).Observe(elapsed.Seconds())
}
