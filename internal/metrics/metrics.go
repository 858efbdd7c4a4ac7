// Package metrics exposes Prometheus instrumentation for the orchestrators.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations counts submitted remote operations by kind and outcome.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oai_operations_total",
		Help: "Remote lifecycle operations submitted, by kind and result.",
	}, []string{"kind", "result"})

	// PollAttempts counts individual status fetches issued by the poller.
	PollAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oai_poll_attempts_total",
		Help: "Status fetches issued while waiting on remote operations.",
	}, []string{"kind"})
)

// Result labels for Operations.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultNoop    = "noop"
	ResultTimeout = "timeout"
)
