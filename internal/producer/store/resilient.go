package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sadapurne/internal/producer/metrics"
	"sadapurne/internal/producer/models"
	id "sadapurne/pkg/domain"
	"sadapurne/pkg/platform/circuit"
)

// ResilientStore wraps a Store with a circuit breaker. Writes always go to the
// delegate and report their error. Reads fall back to the last-known cache
// while the circuit is open.
type ResilientStore struct {
	delegate         Store
	cb               *circuit.Breaker
	cache            *lastKnownCache
	logger           *slog.Logger
	metrics          *metrics.Metrics
	failureThreshold int
	successThreshold int
}

type ResilientOption func(*ResilientStore)

func WithFailureThreshold(n int) ResilientOption {
	return func(r *ResilientStore) {
		r.failureThreshold = n
	}
}

func WithSuccessThreshold(n int) ResilientOption {
	return func(r *ResilientStore) {
		r.successThreshold = n
	}
}

// WithCacheTTL bounds how stale a fallback read may be.
func WithCacheTTL(ttl time.Duration) ResilientOption {
	return func(r *ResilientStore) {
		r.cache = newLastKnownCache(ttl)
	}
}

func WithResilienceMetrics(m *metrics.Metrics) ResilientOption {
	return func(r *ResilientStore) {
		r.metrics = m
	}
}

const (
	defaultFailureThreshold = 5
	defaultSuccessThreshold = 3
)

func NewResilientStore(delegate Store, logger *slog.Logger, opts ...ResilientOption) *ResilientStore {
	if delegate == nil {
		panic("producer store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &ResilientStore{
		delegate:         delegate,
		cache:            newLastKnownCache(5 * time.Minute),
		logger:           logger,
		failureThreshold: defaultFailureThreshold,
		successThreshold: defaultSuccessThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cb = circuit.New("producer_store",
		circuit.WithFailureThreshold(r.failureThreshold),
		circuit.WithSuccessThreshold(r.successThreshold),
	)
	return r
}

func (r *ResilientStore) Save(ctx context.Context, p *models.Producer) error {
	if err := r.delegate.Save(ctx, p); err != nil {
		r.recordFailure(ctx, err)
		return err
	}
	r.recordSuccess(ctx)
	r.cache.Set(p)
	return nil
}

func (r *ResilientStore) FindByAadhar(ctx context.Context, aadhar id.Aadhar) (*models.Producer, error) {
	if r.cb.IsOpen() {
		if p, ok := r.cache.Get(aadhar); ok {
			r.logger.WarnContext(ctx, "circuit open, using cached producer",
				"aadhar", aadhar.Masked(),
				"circuit", r.cb.Name(),
			)
			r.countFallback()
			return p, nil
		}
		// No cached copy: still try the delegate so the circuit can close.
	}

	p, err := r.delegate.FindByAadhar(ctx, aadhar)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.recordSuccess(ctx)
			return nil, err
		}
		if useFallback := r.recordFailure(ctx, err); useFallback {
			if cached, ok := r.cache.Get(aadhar); ok {
				r.logger.WarnContext(ctx, "using cached producer after failure",
					"aadhar", aadhar.Masked(),
					"circuit", r.cb.Name(),
				)
				r.countFallback()
				return cached, nil
			}
		}
		return nil, err
	}

	r.recordSuccess(ctx)
	r.cache.Set(p)
	return p, nil
}

func (r *ResilientStore) List(ctx context.Context) ([]*models.Producer, error) {
	if r.cb.IsOpen() {
		if ps, ok := r.cache.GetList(); ok {
			r.logger.WarnContext(ctx, "circuit open, using cached producer list", "circuit", r.cb.Name())
			r.countFallback()
			return ps, nil
		}
	}

	ps, err := r.delegate.List(ctx)
	if err != nil {
		if useFallback := r.recordFailure(ctx, err); useFallback {
			if cached, ok := r.cache.GetList(); ok {
				r.logger.WarnContext(ctx, "using cached producer list after failure", "circuit", r.cb.Name())
				r.countFallback()
				return cached, nil
			}
		}
		return nil, err
	}

	r.recordSuccess(ctx)
	r.cache.SetList(ps)
	return ps, nil
}

// CircuitOpen reports whether the store is currently considered unhealthy.
func (r *ResilientStore) CircuitOpen() bool {
	return r.cb.IsOpen()
}

func (r *ResilientStore) recordFailure(ctx context.Context, err error) bool {
	useFallback, change := r.cb.RecordFailure()
	if change.Opened {
		r.logger.ErrorContext(ctx, "circuit breaker opened",
			"circuit", r.cb.Name(),
			"error", err,
		)
		if r.metrics != nil {
			r.metrics.CircuitOpened()
		}
	}
	return useFallback
}

func (r *ResilientStore) recordSuccess(ctx context.Context) {
	_, change := r.cb.RecordSuccess()
	if change.Closed {
		r.logger.InfoContext(ctx, "circuit breaker closed", "circuit", r.cb.Name())
		if r.metrics != nil {
			r.metrics.CircuitClosed()
		}
	}
}

func (r *ResilientStore) countFallback() {
	if r.metrics != nil {
		r.metrics.IncrementFallbackReads()
	}
}
