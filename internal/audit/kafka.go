package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaTrail writes every OperationEvent to a durable Kafka topic, the
// audit-log role the teacher's kafka.Producer played for invitations.
type KafkaTrail struct {
	writer *kafka.Writer
}

func NewKafkaTrail(brokerAddr, topic string) *KafkaTrail {
	return &KafkaTrail{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokerAddr),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (t *KafkaTrail) Record(ctx context.Context, event OperationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("audit: marshaling event: %w", err)
	}
	if err := t.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OperatorID),
		Value: data,
	}); err != nil {
		return fmt.Errorf("audit: writing to kafka: %w", err)
	}
	return nil
}

func (t *KafkaTrail) Close() error {
	return t.writer.Close()
}
