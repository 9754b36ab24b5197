package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, AuditMemory, cfg.Audit.Sink)
	assert.Equal(t, 5*time.Minute, cfg.Storage.CacheTTL)
	assert.Equal(t, int64(20<<20), cfg.Server.MaxBodyBytes)
	assert.False(t, cfg.TracingEnabled)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SADAPURNE_ADDR", ":9000")
	t.Setenv("PRODUCER_STORE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/sadapurne")
	t.Setenv("PRODUCER_CACHE_TTL", "30s")
	t.Setenv("REDIS_POOL_SIZE", "32")
	t.Setenv("AUDIT_SINK", "kafka")
	t.Setenv("VERIFY_POLICY_FILE", "/etc/sadapurne/policy.toml")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := FromEnv()

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.Equal(t, "postgres://localhost/sadapurne", cfg.Storage.DatabaseURL)
	assert.Equal(t, 30*time.Second, cfg.Storage.CacheTTL)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
	assert.Equal(t, AuditKafka, cfg.Audit.Sink)
	assert.Equal(t, "/etc/sadapurne/policy.toml", cfg.PolicyFile)
	assert.True(t, cfg.TracingEnabled)
}

func TestFromEnv_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("REDIS_POOL_SIZE", "many")

	cfg := FromEnv()

	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}
