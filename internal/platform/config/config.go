// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	strs "intake/pkg/platform/strings"
)

// Store backends for application sessions.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config is the full process configuration.
type Config struct {
	Addr       string        `env:"INTAKE_ADDR" envDefault:":8080"`
	LogLevel   string        `env:"INTAKE_LOG_LEVEL" envDefault:"info"`
	Store      string        `env:"INTAKE_STORE" envDefault:"memory"`
	SessionTTL time.Duration `env:"INTAKE_SESSION_TTL" envDefault:"24h"`

	Wizard    WizardConfig
	Backend   BackendConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Kafka     KafkaConfig
	Audit     AuditConfig
	Reference ReferenceDataConfig
}

// WizardConfig selects the policies left open by the engine.
type WizardConfig struct {
	Jurisdiction     string `env:"INTAKE_JURISDICTION" envDefault:"01"`
	Rounding         string `env:"INTAKE_ROUNDING" envDefault:"equal"`
	SectionRelock    string `env:"INTAKE_SECTION_RELOCK" envDefault:"lenient"`
	RejectUnresolved bool   `env:"INTAKE_REJECT_UNRESOLVED_ALLOCATIONS" envDefault:"false"`
}

// BackendConfig points at the carrier endpoints. An empty URL selects the
// local backend, which issues identifiers and quotes in process.
type BackendConfig struct {
	URL              string        `env:"INTAKE_BACKEND_URL"`
	Timeout          time.Duration `env:"INTAKE_BACKEND_TIMEOUT" envDefault:"10s"`
	FailureThreshold int           `env:"INTAKE_BACKEND_FAILURE_THRESHOLD" envDefault:"5"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// PostgresConfig holds database settings.
type PostgresConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// KafkaConfig enables the audit event sink when Brokers is set.
type KafkaConfig struct {
	Brokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	AuditTopic string   `env:"KAFKA_AUDIT_TOPIC" envDefault:"intake.audit"`
	Partitions int32    `env:"KAFKA_AUDIT_PARTITIONS" envDefault:"3"`
}

type AuditConfig struct {
	AsyncBuffer   int     `env:"AUDIT_ASYNC_BUFFER" envDefault:"256"`
	OpsSampleRate float64 `env:"AUDIT_OPS_SAMPLE_RATE" envDefault:"1"`
}

type ReferenceDataConfig struct {
	CacheTTL time.Duration `env:"REFDATA_CACHE_TTL" envDefault:"10m"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Kafka.Brokers = strs.DedupeAndTrim(cfg.Kafka.Brokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("INTAKE_STORE=redis requires REDIS_URL")
		}
	case StorePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("INTAKE_STORE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown INTAKE_STORE %q", c.Store)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("INTAKE_SESSION_TTL must be positive")
	}
	return nil
}
