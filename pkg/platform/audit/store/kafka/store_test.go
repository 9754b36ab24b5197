package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sadapurne/internal/platform/kafka/producer"
	dErrors "sadapurne/pkg/domain-errors"
	audit "sadapurne/pkg/platform/audit"
)

type captureProducer struct {
	msgs []*producer.Message
	err  error
}

func (p *captureProducer) Produce(_ context.Context, msg *producer.Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func TestStore_Append(t *testing.T) {
	p := &captureProducer{}
	store := New(p, "")

	event := audit.Event{
		Category:        audit.CategoryCompliance,
		Timestamp:       time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Subject:         "4f1c2a9d0b7e6c35",
		Action:          string(audit.EventVerificationFailed),
		Stage:           "name_match",
		Decision:        "failed",
		CertificateType: "basic_registration",
		RequestID:       "req-1",
	}
	require.NoError(t, store.Append(context.Background(), event))
	require.Len(t, p.msgs, 1)

	msg := p.msgs[0]
	assert.Equal(t, DefaultTopic, msg.Topic)
	assert.Equal(t, "4f1c2a9d0b7e6c35", string(msg.Key))
	assert.Equal(t, "compliance", msg.Headers["category"])
	assert.Equal(t, "req-1", msg.Headers["request_id"])

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestStore_AppendPropagatesProducerError(t *testing.T) {
	boom := errors.New("broker unreachable")
	store := New(&captureProducer{err: boom}, "audit")

	err := store.Append(context.Background(), audit.Event{Subject: "s"})
	assert.ErrorIs(t, err, boom)
}

func TestStore_IsWriteOnly(t *testing.T) {
	_, err := New(&captureProducer{}, "audit").ListBySubject(context.Background(), "s")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}
