// Package kafka publishes audit events to a Kafka topic for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"sadapurne/internal/platform/kafka/producer"
	dErrors "sadapurne/pkg/domain-errors"
	audit "sadapurne/pkg/platform/audit"
)

// DefaultTopic receives verification audit events.
const DefaultTopic = "sadapurne.audit.verifications"

// MessageProducer is satisfied by producer.Producer.
type MessageProducer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// Store writes each event as one JSON record keyed by subject, so all events
// for a producer land on the same partition in order. It is write-only.
type Store struct {
	producer MessageProducer
	topic    string
}

func New(p MessageProducer, topic string) *Store {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Store{producer: p, topic: topic}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	msg := &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.Subject),
		Value: value,
		Headers: map[string]string{
			"category": string(event.Category),
			"action":   event.Action,
		},
	}
	if event.RequestID != "" {
		msg.Headers["request_id"] = event.RequestID
	}
	if err := s.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

func (s *Store) ListBySubject(_ context.Context, _ string) ([]audit.Event, error) {
	return nil, dErrors.New(dErrors.CodeUnavailable, "audit events are not queryable from kafka")
}
