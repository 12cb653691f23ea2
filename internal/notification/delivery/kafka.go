package delivery

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer publishes delivery events to a Kafka topic, keyed by the
// recipient so one user's notifications stay ordered within a partition.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer returns a producer writing to topic on the given brokers.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

// Publish writes one event. The recipient's user ID is the message key.
func (p *KafkaProducer) Publish(ctx context.Context, ev *Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.UserID),
		Value: payload,
	})
}

// Close flushes pending messages and releases the writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
