package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type PollMetrics struct {
	Polls metrics.Gauge
	Votes metrics.Counter
}

func (m *PollMetrics) AddPolls(delta int) {
	m.Polls.Add(float64(delta))
}

func (m *PollMetrics) AddVote(pollID string) {
	m.Votes.With("poll_id", pollID).Add(1)
}

func PromPollMetrics() *PollMetrics {
	return &PollMetrics{
		Polls: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: PollSubsystem,
			Name:      "polls",
			Help:      "Number of polls created since the node started.",
		}, []string{}),
		Votes: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: PollSubsystem,
			Name:      "votes_total",
			Help:      "Total number of accepted votes.",
		}, []string{"poll_id"}),
	}
}

func NopPollMetrics() *PollMetrics {
	return &PollMetrics{
		Polls: discard.NewGauge(),
		Votes: discard.NewCounter(),
	}
}
