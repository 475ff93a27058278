package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "custody_operations_total",
			Help: "Total number of controller operations by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	MintedAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custody_minted_amount_total",
		Help: "Total amount credited by approved mint requests, in the asset's smallest unit",
	})

	BurnedAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custody_burned_amount_total",
		Help: "Total amount destroyed by burns, in the asset's smallest unit",
	})

	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custody_event_publish_failures_total",
		Help: "Total number of committed events the event sink failed to publish",
	})
)

func ObserveOperation(action string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	OperationsTotal.WithLabelValues(action, outcome).Inc()
}
