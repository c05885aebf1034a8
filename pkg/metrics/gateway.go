package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Gateway call outcomes.
const (
	OutcomeApproved        = "approved"
	OutcomeDeclined        = "declined"
	OutcomeInvalidResponse = "invalid_response"
	OutcomeTransportError  = "transport_error"
	OutcomeRejected        = "rejected"
)

var (
	GatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mwg",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Merchant Warrior request latency in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mwg",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of Merchant Warrior operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	Registry.MustRegister(GatewayRequestDuration, GatewayRequestsTotal)
}

// ObserveGatewayCall records one gateway operation. Rejected calls never
// reached the network, so only their count is recorded.
func ObserveGatewayCall(operation, outcome string, elapsed time.Duration) {
	GatewayRequestsTotal.WithLabelValues(operation, outcome).Inc()
	if outcome != OutcomeRejected {
		GatewayRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}
}
