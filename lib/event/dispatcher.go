package event

import (
	"context"
	"time"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/ballotbox/lib/common/observer"
	"boscoin.io/ballotbox/lib/contract/payload"
	"boscoin.io/ballotbox/lib/metrics"
)

const (
	DefaultQueueSize      = 1024
	DefaultPublishTimeout = 5 * time.Second
)

// Dispatcher moves committed contract calls from `observer.ContractObserver`
// to a `Publisher`. Observer handlers only enqueue; publishing happens in
// `Run`, so a slow broker never holds up a contract call.
type Dispatcher struct {
	publisher Publisher
	topic     string
	queue     chan Event
	timeout   time.Duration
	log       logging.Logger
	handler   func(...interface{})
}

func NewDispatcher(publisher Publisher, topic string, queueSize int) *Dispatcher {
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}

	d := &Dispatcher{
		publisher: publisher,
		topic:     topic,
		queue:     make(chan Event, queueSize),
		timeout:   DefaultPublishTimeout,
		log:       log.New("topic", topic),
	}
	d.handler = d.enqueue

	return d
}

func subscribedEvent() string {
	return observer.NewEvent(observer.ResourceContract, observer.ConditionAll, "").String()
}

func (d *Dispatcher) Subscribe() {
	observer.ContractObserver.On(subscribedEvent(), d.handler)
}

func (d *Dispatcher) Unsubscribe() {
	observer.ContractObserver.Off(subscribedEvent(), d.handler)
}

func (d *Dispatcher) enqueue(args ...interface{}) {
	if len(args) < 3 {
		return
	}

	sender, _ := args[0].(string)
	code, ok := args[1].(*payload.ExecCode)
	if !ok {
		return
	}
	resp, ok := args[2].(*payload.Response)
	if !ok {
		return
	}

	e := NewEvent(sender, code, resp)
	select {
	case d.queue <- e:
	default:
		d.log.Error("event queue is full; event dropped", "id", e.ID, "method", e.Method)
		metrics.Event.AddPublishError(d.topic)
	}
}

// Run publishes queued events until `ctx` is done; events still queued then
// are flushed before it returns.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.flush()
			return nil
		case e := <-d.queue:
			d.publish(append([]Event{e}, d.drain()...))
		}
	}
}

func (d *Dispatcher) drain() (events []Event) {
	for {
		select {
		case e := <-d.queue:
			events = append(events, e)
		default:
			return
		}
	}
}

func (d *Dispatcher) flush() {
	if events := d.drain(); len(events) > 0 {
		d.publish(events)
	}
}

func (d *Dispatcher) publish(events []Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, events...); err != nil {
		d.log.Error("failed to publish events", "count", len(events), "error", err)
		metrics.Event.AddPublishError(d.topic)
		return
	}

	d.log.Debug("events published", "count", len(events))
	metrics.Event.AddPublished(d.topic, len(events))
}
