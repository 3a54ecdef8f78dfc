package metrics

import (
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	"boscoin.io/ballotbox/lib/errors"
)

type ContractMetrics struct {
	CallsTotal          metrics.Counter
	CallErrorsTotal     metrics.Counter
	CallDurationSeconds metrics.Histogram
}

// ObserveCall records one contract call; `err` decides the status label
// and, for coded errors, the error code label.
func (c *ContractMetrics) ObserveCall(begin time.Time, contract, method string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure

		code := "0"
		if e, ok := err.(*errors.Error); ok {
			code = strconv.FormatUint(uint64(e.Code), 10)
		}
		c.CallErrorsTotal.With("contract", contract, "method", method, "code", code).Add(1)
	}

	c.CallsTotal.With("contract", contract, "method", method, "status", status).Add(1)
	c.CallDurationSeconds.With("contract", contract, "method", method).Observe(time.Since(begin).Seconds())
}

func PromContractMetrics() *ContractMetrics {
	return &ContractMetrics{
		CallsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: ContractSubsystem,
			Name:      "calls_total",
			Help:      "Total number of contract calls.",
		}, []string{"contract", "method", "status"}),
		CallErrorsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: ContractSubsystem,
			Name:      "call_errors_total",
			Help:      "Total number of failed contract calls.",
		}, []string{"contract", "method", "code"}),
		CallDurationSeconds: prometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: Namespace,
			Subsystem: ContractSubsystem,
			Name:      "call_duration_seconds",
			Help:      "Duration of contract calls.",
		}, []string{"contract", "method"}),
	}
}

func NopContractMetrics() *ContractMetrics {
	return &ContractMetrics{
		CallsTotal:          discard.NewCounter(),
		CallErrorsTotal:     discard.NewCounter(),
		CallDurationSeconds: discard.NewHistogram(),
	}
}
