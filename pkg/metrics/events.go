package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	PublishSucceeded = "ok"
	PublishFailed    = "error"
)

var OutcomeEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "mwg",
		Subsystem: "outcomes",
		Name:      "published_total",
		Help:      "Payment outcome events written to Kafka, by result",
	},
	[]string{"result"},
)

func init() {
	Registry.MustRegister(OutcomeEventsTotal)
}
