package event

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// KafkaPublisher writes events to one kafka topic, keyed by `Event.Key()` so
// the events of a poll keep their order within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  5,
		Compression:  kafka.Snappy,
	}

	return &KafkaPublisher{writer: w}
}

func (kp *KafkaPublisher) Topic() string {
	return kp.writer.Topic
}

func (kp *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		b, err := e.Serialize()
		if err != nil {
			return errors.Wrap(err, "failed to marshal event")
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Key()),
			Value: b,
		})
	}

	if err := kp.writer.WriteMessages(ctx, msgs...); err != nil {
		return errors.Wrap(err, "failed to write messages to kafka")
	}

	return nil
}

func (kp *KafkaPublisher) Close() error {
	return errors.Wrap(kp.writer.Close(), "failed to close kafka writer")
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}

// MemoryPublisher keeps the published events in memory.
type MemoryPublisher struct {
	sync.RWMutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (mp *MemoryPublisher) Publish(_ context.Context, events ...Event) error {
	mp.Lock()
	defer mp.Unlock()

	mp.events = append(mp.events, events...)
	return nil
}

func (mp *MemoryPublisher) Close() error {
	return nil
}

func (mp *MemoryPublisher) Events() []Event {
	mp.RLock()
	defer mp.RUnlock()

	return append([]Event{}, mp.events...)
}
