package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"sadapurne/internal/platform/config"
	"sadapurne/internal/platform/database"
	"sadapurne/internal/platform/health"
	"sadapurne/internal/platform/kafka"
	"sadapurne/internal/platform/kafka/producer"
	"sadapurne/internal/platform/redis"
	producermetrics "sadapurne/internal/producer/metrics"
	"sadapurne/internal/producer/store"
	"sadapurne/migrations"
	"sadapurne/pkg/platform/audit"
	auditmetrics "sadapurne/pkg/platform/audit/metrics"
	auditpublisher "sadapurne/pkg/platform/audit/publisher"
	auditkafka "sadapurne/pkg/platform/audit/store/kafka"
	auditmemory "sadapurne/pkg/platform/audit/store/memory"
	"sadapurne/pkg/platform/audit/store/sqlstore"
)

const poolStatsInterval = 15 * time.Second

// infra owns connections to external systems and closes them in reverse order.
type infra struct {
	cfg    config.Config
	log    *slog.Logger
	reg    prometheus.Registerer
	health *health.Handler
	group  *errgroup.Group

	db      *database.Pool
	closers []func()
}

func (i *infra) onClose(fn func()) {
	i.closers = append(i.closers, fn)
}

func (i *infra) close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		i.closers[j]()
	}
}

// sqlPool opens the configured SQL database once; the producer store and the
// SQL audit sink share it.
func (i *infra) sqlPool(ctx context.Context) (*database.Pool, error) {
	if i.db != nil {
		return i.db, nil
	}
	cfg := database.DefaultConfig()
	switch {
	case i.cfg.Storage.Backend == config.StorageSQLite:
		cfg.Dialect = migrations.DialectSQLite
		cfg.URL = i.cfg.Storage.SQLitePath
	case i.cfg.Storage.Backend == config.StoragePostgres || i.cfg.Storage.DatabaseURL != "":
		cfg.Dialect = migrations.DialectPostgres
		cfg.URL = i.cfg.Storage.DatabaseURL
	default:
		cfg.Dialect = migrations.DialectSQLite
		cfg.URL = i.cfg.Storage.SQLitePath
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("%s database URL is not configured", cfg.Dialect)
	}

	pool, err := database.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	i.db = pool
	i.health.RegisterCheck("database", pool.Health)
	i.onClose(func() { _ = pool.Close() })
	return pool, nil
}

// producerStore builds the configured backend behind the circuit-breaking wrapper.
func (i *infra) producerStore(ctx context.Context, m *producermetrics.Metrics) (*store.ResilientStore, error) {
	var delegate store.Store
	switch i.cfg.Storage.Backend {
	case config.StorageMemory:
		delegate = store.NewInMemoryStore()
	case config.StorageSQLite, config.StoragePostgres:
		pool, err := i.sqlPool(ctx)
		if err != nil {
			return nil, fmt.Errorf("producer store: %w", err)
		}
		delegate = store.NewSQLStore(pool.DB(), pool.Dialect(), m)
	case config.StorageRedis:
		client, err := redis.New(ctx, i.cfg.Redis, i.reg)
		if err != nil {
			return nil, fmt.Errorf("producer store: %w", err)
		}
		if client == nil {
			return nil, fmt.Errorf("producer store: REDIS_URL is not configured")
		}
		i.health.RegisterCheck("redis", client.Health)
		i.onClose(func() { _ = client.Close() })
		i.group.Go(func() error {
			ticker := time.NewTicker(poolStatsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					client.RecordPoolStats()
				}
			}
		})
		delegate = store.NewRedisStore(client.Client, m)
	default:
		return nil, fmt.Errorf("unknown producer store %q", i.cfg.Storage.Backend)
	}

	return store.NewResilientStore(delegate, i.log,
		store.WithCacheTTL(i.cfg.Storage.CacheTTL),
		store.WithResilienceMetrics(m),
	), nil
}

// auditPublisher builds the configured sink behind an async publisher.
func (i *infra) auditPublisher(ctx context.Context) (*auditpublisher.Publisher, error) {
	var sink audit.Store
	switch i.cfg.Audit.Sink {
	case config.AuditMemory:
		sink = auditmemory.NewInMemoryStore()
	case config.AuditSQL:
		pool, err := i.sqlPool(ctx)
		if err != nil {
			return nil, fmt.Errorf("audit sink: %w", err)
		}
		sink = sqlstore.New(pool.DB())
	case config.AuditKafka:
		prod, err := producer.New(kafka.DefaultProducerConfig(i.cfg.Kafka.Brokers), i.log)
		if err != nil {
			return nil, fmt.Errorf("audit sink: %w", err)
		}
		i.health.RegisterCheck("kafka", prod.Health)
		i.onClose(func() { prod.Close(10 * time.Second) })
		sink = auditkafka.New(prod, i.cfg.Kafka.AuditTopic)
	default:
		return nil, fmt.Errorf("unknown audit sink %q", i.cfg.Audit.Sink)
	}

	pub := auditpublisher.NewPublisher(sink,
		auditpublisher.WithAsyncBuffer(i.cfg.Audit.AsyncBuffer),
		auditpublisher.WithPublisherLogger(i.log),
		auditpublisher.WithMetrics(auditmetrics.New(i.reg)),
	)
	// Registered after the sink so the publisher drains before the sink closes.
	i.onClose(pub.Close)
	return pub, nil
}
