package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends for verified producers.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Audit sinks.
const (
	AuditMemory = "memory"
	AuditSQL    = "sql"
	AuditKafka  = "kafka"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	// MaxBodyBytes bounds POST /verify bodies, which carry a base64 PDF.
	MaxBodyBytes int64
}

type Storage struct {
	Backend     string
	DatabaseURL string
	SQLitePath  string
	// CacheTTL bounds how long last-known producer reads are served while the store circuit is open.
	CacheTTL time.Duration
}

type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Kafka struct {
	Brokers    string
	AuditTopic string
}

type Audit struct {
	Sink        string
	AsyncBuffer int
}

// Config is the full process configuration.
type Config struct {
	Server   Server
	LogLevel string
	Storage  Storage
	Redis    Redis
	Kafka    Kafka
	Audit    Audit
	// PolicyFile is an optional TOML file overriding the verification policy.
	PolicyFile     string
	TracingEnabled bool
}

// FromEnv builds the configuration from environment variables so main stays lean.
// Unset or unparsable values keep their defaults.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envOr("SADAPURNE_ADDR", ":8000"),
			Environment:     envOr("SADAPURNE_ENV", "development"),
			ReadTimeout:     envDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    envDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			RequestTimeout:  envDuration("REQUEST_TIMEOUT", 25*time.Second),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxBodyBytes:    int64(envInt("MAX_BODY_BYTES", 20<<20)),
		},
		LogLevel: envOr("LOG_LEVEL", "info"),
		Storage: Storage{
			Backend:     strings.ToLower(envOr("PRODUCER_STORE", StorageMemory)),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			SQLitePath:  envOr("SQLITE_PATH", "sadapurne.db"),
			CacheTTL:    envDuration("PRODUCER_CACHE_TTL", 5*time.Minute),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:    os.Getenv("KAFKA_BROKERS"),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "sadapurne.audit.verifications"),
		},
		Audit: Audit{
			Sink:        strings.ToLower(envOr("AUDIT_SINK", AuditMemory)),
			AsyncBuffer: envInt("AUDIT_ASYNC_BUFFER", 256),
		},
		PolicyFile:     os.Getenv("VERIFY_POLICY_FILE"),
		TracingEnabled: os.Getenv("TRACING_ENABLED") == "true",
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
