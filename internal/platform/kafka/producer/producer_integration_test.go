//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"sadapurne/internal/platform/kafka"
	"sadapurne/internal/platform/kafka/producer"
	"sadapurne/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())

	cfg := kafka.DefaultProducerConfig(s.kafka.Brokers)
	cfg.DeliveryTimeout = 10 * time.Second
	prod, err := producer.New(cfg, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close(5 * time.Second)
	}
}

func (s *ProducerIntegrationSuite) TestProduceIsAcknowledged() {
	ctx := context.Background()
	topic := "producer-sync"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 1))

	err := s.producer.Produce(ctx, &producer.Message{
		Topic:   topic,
		Key:     []byte("subject-1"),
		Value:   []byte(`{"action":"verification_succeeded"}`),
		Headers: map[string]string{"request_id": "req-1"},
	})
	s.Require().NoError(err)

	consumer, err := s.kafka.NewConsumer("producer-sync-reader", topic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafka.WaitForRecord(ctx, consumer, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "subject-1"
	})
	s.Require().NotNil(record)
	s.Equal(`{"action":"verification_succeeded"}`, string(record.Value))
	s.Require().Len(record.Headers, 1)
	s.Equal("request_id", record.Headers[0].Key)
}

func (s *ProducerIntegrationSuite) TestHealth() {
	s.NoError(s.producer.Health(context.Background()))
}
