package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrokerList(t *testing.T) {
	cfg := DefaultProducerConfig(" kafka-1:9092, ,kafka-2:9092 ")
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.BrokerList())
	assert.Equal(t, "all", cfg.Acks)

	assert.Empty(t, DefaultProducerConfig("").BrokerList())
}
