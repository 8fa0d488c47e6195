package subprocess

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// invocationsTotal counts analysis CLI invocations by command and result
	invocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanner_cli_invocations_total",
		Help: "Total analysis CLI invocations by command and result",
	}, []string{"command", "result"})

	// invocationDuration tracks analysis CLI wall-clock time
	invocationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scanner_cli_invocation_duration_seconds",
		Help:    "Analysis CLI invocation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 14), // 50ms to ~7min
	}, []string{"command"})
)
