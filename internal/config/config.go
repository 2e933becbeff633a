// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the schedule-assist worker.
// Environment variables are parsed from the SCHED_ASSIST_ prefix,
// e.g. SCHED_ASSIST_GATEWAY_URL, SCHED_ASSIST_NATS_URL.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// Admin HTTP (health/readiness)
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// GraphQL gateway
	GatewayURL         string `envconfig:"GATEWAY_URL" required:"true"`
	GatewayAdminSecret string `envconfig:"GATEWAY_ADMIN_SECRET" required:"true"`
	GatewayRole        string `envconfig:"GATEWAY_ROLE" default:"admin"`

	// Queue
	NATSURL           string        `envconfig:"NATS_URL" default:"nats://127.0.0.1:4222"`
	QueueStream       string        `envconfig:"QUEUE_STREAM" default:"SCHEDULE_ASSIST"`
	QueueSubject      string        `envconfig:"QUEUE_SUBJECT" default:"schedule.assist.plan"`
	QueueDurable      string        `envconfig:"QUEUE_DURABLE" default:"schedule-assist-worker"`
	QueueAckWait      time.Duration `envconfig:"QUEUE_ACK_WAIT" default:"5m"`
	QueueFetchWait    time.Duration `envconfig:"QUEUE_FETCH_WAIT" default:"5s"`
	WorkerConcurrency int           `envconfig:"WORKER_CONCURRENCY" default:"8"`

	// Object store for solver input bundles
	S3Endpoint  string `envconfig:"S3_ENDPOINT" default:""`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Bucket    string `envconfig:"S3_BUCKET" required:"true"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY" default:""`
	S3SecretKey string `envconfig:"S3_SECRET_KEY" default:""`

	// Solver
	SolverURL      string        `envconfig:"SOLVER_URL" required:"true"`
	SolverUsername string        `envconfig:"SOLVER_USERNAME" required:"true"`
	SolverPassword string        `envconfig:"SOLVER_PASSWORD" required:"true"`
	SolverDelay    time.Duration `envconfig:"SOLVER_DELAY" default:"3s"`
	CallbackURL    string        `envconfig:"CALLBACK_URL" default:""`

	// Optional natural-language request parser
	ParserURL string `envconfig:"PARSER_URL" default:""`

	// Node-local run ledger (sqlite)
	LedgerPath string `envconfig:"LEDGER_PATH" default:"schedule-assist-ledger.db"`
}

// New creates a Config by parsing environment variables. Required fields
// fail fast here so a misconfigured worker never consumes a message.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SCHED_ASSIST", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("http_port", cfg.HTTPPort).
		Str("gateway_url", cfg.GatewayURL).
		Str("nats_url", cfg.NATSURL).
		Str("queue_stream", cfg.QueueStream).
		Str("queue_subject", cfg.QueueSubject).
		Str("s3_bucket", cfg.S3Bucket).
		Str("solver_url", cfg.SolverURL).
		Int("worker_concurrency", cfg.WorkerConcurrency).
		Msg("Configuration loaded")

	return &cfg, nil
}

// Validate checks cross-field constraints envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.WorkerConcurrency < 1 {
		return fmt.Errorf("worker concurrency must be at least 1, got %d", c.WorkerConcurrency)
	}
	if c.QueueAckWait <= 0 {
		return fmt.Errorf("queue ack wait must be positive, got %s", c.QueueAckWait)
	}
	if c.SolverDelay < 0 {
		return fmt.Errorf("solver delay must not be negative, got %s", c.SolverDelay)
	}
	return nil
}

// NewForTesting creates a fully populated config for tests.
func NewForTesting() *Config {
	return &Config{
		Environment:        EnvTesting,
		LogLevel:           "debug",
		HTTPPort:           8080,
		GatewayURL:         "http://localhost:8088/v1/graphql",
		GatewayAdminSecret: "test-secret",
		GatewayRole:        "admin",
		NATSURL:            "nats://127.0.0.1:4222",
		QueueStream:        "SCHEDULE_ASSIST",
		QueueSubject:       "schedule.assist.plan",
		QueueDurable:       "schedule-assist-worker",
		QueueAckWait:       5 * time.Minute,
		QueueFetchWait:     5 * time.Second,
		WorkerConcurrency:  4,
		S3Region:           "us-east-1",
		S3Bucket:           "schedule-assist-test",
		SolverURL:          "http://localhost:8081",
		SolverUsername:     "admin",
		SolverPassword:     "admin",
		SolverDelay:        3 * time.Second,
		LedgerPath:         ":memory:",
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the admin HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
