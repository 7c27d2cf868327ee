// Package kafka delivers audit events to a Kafka topic so downstream
// consumers (attendance dashboards, district reporting) can react to roster
// changes without polling the API.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"rollcall/internal/audit"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "rollcall.roster-events"

// Sink publishes audit events to a Kafka topic. Events are keyed by activity
// name so all changes to one roster land in the same partition, preserving
// per-activity ordering for consumers.
type Sink struct {
	client *kgo.Client
	topic  string
}

// New connects to the given brokers and returns a sink for the topic.
func New(brokers []string, topic string) (*Sink, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Sink{client: client, topic: topic}, nil
}

// Publish produces one event synchronously. The publisher treats sink errors
// as fail-open, so blocking here only delays the audit path, never the
// roster mutation response.
func (s *Sink) Publish(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Activity),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes buffered records and releases the client.
func (s *Sink) Close() {
	s.client.Close()
}
