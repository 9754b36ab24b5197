package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sadapurne/pkg/domain-errors"
	audit "sadapurne/pkg/platform/audit"
	"sadapurne/pkg/platform/audit/metrics"
	"sadapurne/pkg/platform/audit/store/memory"
)

type failingStore struct {
	err error
}

func (s *failingStore) Append(_ context.Context, _ audit.Event) error {
	return s.err
}

func (s *failingStore) ListBySubject(_ context.Context, _ string) ([]audit.Event, error) {
	return nil, nil
}

// blockingStore holds Append until release is closed.
type blockingStore struct {
	release chan struct{}
	mu      sync.Mutex
	count   int
}

func (s *blockingStore) Append(_ context.Context, _ audit.Event) error {
	<-s.release
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	return nil
}

func (s *blockingStore) ListBySubject(_ context.Context, _ string) ([]audit.Event, error) {
	return nil, nil
}

func TestPublisher_EmitStoresEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)

	err := pub.Emit(context.Background(), audit.Event{
		Subject: "a1b2c3d4e5f60718",
		Action:  string(audit.EventVerificationSucceeded),
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "a1b2c3d4e5f60718")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventVerificationSucceeded), events[0].Action)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)

	before := time.Now()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "s", Action: string(audit.EventVerificationFailed)}))
	after := time.Now()

	events, err := pub.List(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.Before(before))
	assert.False(t, events[0].Timestamp.After(after))
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)

	customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "s", Timestamp: customTime}))

	events, err := pub.List(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
}

func TestPublisher_EmitReturnsError(t *testing.T) {
	storeErr := errors.New("append failed")
	pub := NewPublisher(&failingStore{err: storeErr})

	err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventVerificationFailed)})
	require.ErrorIs(t, err, storeErr)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(8))

	for range 5 {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "s"}))
	}
	pub.Close()

	events, err := store.ListBySubject(context.Background(), "s")
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestPublisher_AsyncBufferFull(t *testing.T) {
	store := &blockingStore{release: make(chan struct{})}
	pub := NewPublisher(store, WithAsyncBuffer(1))

	// The worker takes the first event and blocks; the second fills the buffer.
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "s"}))
	require.Eventually(t, func() bool {
		return pub.Emit(context.Background(), audit.Event{Subject: "s"}) == nil
	}, time.Second, time.Millisecond)

	err := pub.Emit(context.Background(), audit.Event{Subject: "s"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))

	close(store.release)
	pub.Close()
}

func TestPublisher_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	pub := NewPublisher(&failingStore{err: errors.New("sink down")}, WithMetrics(m))

	err := pub.Emit(context.Background(), audit.Event{Subject: "s", Action: string(audit.EventVerificationSucceeded)})
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventsEmitted.WithLabelValues(string(audit.CategoryCompliance))))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PersistFailures))
	assert.Zero(t, testutil.ToFloat64(m.QueueDepth))
}
