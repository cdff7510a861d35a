package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/storelane/inventory/internal/core/domain"
)

// KafkaAlertPublisher writes alert events to the topic consumed by the
// notification collaborator. Messages are keyed by product id so transitions
// for one product stay ordered within a partition.
type KafkaAlertPublisher struct {
	writer *kafka.Writer
}

func NewKafkaAlertPublisher(brokers []string, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (p *KafkaAlertPublisher) Publish(ctx context.Context, event domain.AlertEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal alert event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ProductID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("write alert event: %w", err)
	}
	return nil
}

func (p *KafkaAlertPublisher) Close() error {
	return p.writer.Close()
}
