package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type EventMetrics struct {
	PublishedTotal    metrics.Counter
	PublishErrorTotal metrics.Counter
}

func (m *EventMetrics) AddPublished(topic string, n int) {
	m.PublishedTotal.With("topic", topic).Add(float64(n))
}

func (m *EventMetrics) AddPublishError(topic string) {
	m.PublishErrorTotal.With("topic", topic).Add(1)
}

func PromEventMetrics() *EventMetrics {
	return &EventMetrics{
		PublishedTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: EventSubsystem,
			Name:      "published_total",
			Help:      "Total number of published events.",
		}, []string{"topic"}),
		PublishErrorTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: EventSubsystem,
			Name:      "publish_errors_total",
			Help:      "Total number of event publish errors.",
		}, []string{"topic"}),
	}
}

func NopEventMetrics() *EventMetrics {
	return &EventMetrics{
		PublishedTotal:    discard.NewCounter(),
		PublishErrorTotal: discard.NewCounter(),
	}
}
