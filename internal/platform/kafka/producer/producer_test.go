package producer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sadapurne/internal/platform/kafka"
)

func TestNew_RequiresBrokers(t *testing.T) {
	_, err := New(kafka.DefaultProducerConfig(" , "), nil)
	assert.ErrorContains(t, err, "brokers not configured")
}

func TestRecordHeaders_SortedByKey(t *testing.T) {
	h := recordHeaders(map[string]string{"request_id": "req-1", "action": "verification_succeeded", "category": "compliance"})
	require.Len(t, h, 3)
	assert.Equal(t, "action", h[0].Key)
	assert.Equal(t, "category", h[1].Key)
	assert.Equal(t, "request_id", h[2].Key)
	assert.Equal(t, []byte("req-1"), h[2].Value)

	assert.Nil(t, recordHeaders(nil))
}

func TestClosedProducerRejectsWrites(t *testing.T) {
	p, err := New(kafka.DefaultProducerConfig("127.0.0.1:1"), nil)
	require.NoError(t, err)
	p.Close(0)
	p.Close(0)

	assert.ErrorContains(t, p.Produce(t.Context(), &Message{Topic: "t"}), "closed")
	assert.Error(t, p.Health(t.Context()))
}
