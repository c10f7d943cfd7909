// Package worker runs the scheduled ingestion job: cron scheduling,
// the single-run guard, and the worker's own health endpoints.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"ultra-news/internal/pkg/config"
)

// Config holds the worker configuration.
// All fields have defaults and the loader falls back to them on invalid
// input, so the worker always starts with a usable configuration.
type Config struct {
	// CronSchedule is the five-field cron expression for ingestion runs.
	// Default: hourly on the hour.
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	Timezone string

	// RunTimeout bounds one ingestion run end to end.
	RunTimeout time.Duration

	// Parallelism bounds concurrent entry processing within a source.
	Parallelism int

	// LockStaleAfter is how long a held run-lock is honored before it
	// is treated as abandoned by a crashed process.
	LockStaleAfter time.Duration

	// HealthPort is the port of the worker's health endpoint server.
	HealthPort int
}

// DefaultConfig returns production defaults: hourly runs in UTC with a
// ten minute budget per run.
func DefaultConfig() Config {
	return Config{
		CronSchedule:   "0 * * * *",
		Timezone:       "UTC",
		RunTimeout:     10 * time.Minute,
		Parallelism:    8,
		LockStaleAfter: 30 * time.Minute,
		HealthPort:     9091,
	}
}

// Validate checks all fields, aggregating every violation.
func (c *Config) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(1, 64)(c.Parallelism); err != nil {
		errs = append(errs, fmt.Errorf("parallelism: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.LockStaleAfter); err != nil {
		errs = append(errs, fmt.Errorf("lock stale after: %w", err))
	}
	if err := config.ValidateIntRange(1024, 65535)(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration from environment
// variables, falling back to defaults on invalid values. It never
// returns an unusable configuration.
//
// Environment variables:
//   - INGEST_CRON: cron expression (default "0 * * * *")
//   - WORKER_TIMEZONE: IANA timezone (default "UTC")
//   - INGEST_RUN_TIMEOUT: duration, e.g. "10m"
//   - INGEST_PARALLELISM: integer 1-64
//   - INGEST_LOCK_STALE_AFTER: duration, e.g. "30m"
//   - WORKER_HEALTH_PORT: integer 1024-65535
func LoadConfigFromEnv(logger *slog.Logger) Config {
	cfg := DefaultConfig()

	warn := func(field string, res config.LoadResult) {
		if res.Warning != "" {
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", res.Warning))
		}
	}

	res := config.LoadEnvWithFallback("INGEST_CRON", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = res.Value.(string)
	warn("CronSchedule", res)

	res = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = res.Value.(string)
	warn("Timezone", res)

	res = config.LoadEnvDuration("INGEST_RUN_TIMEOUT", cfg.RunTimeout, config.ValidatePositiveDuration)
	cfg.RunTimeout = res.Value.(time.Duration)
	warn("RunTimeout", res)

	res = config.LoadEnvInt("INGEST_PARALLELISM", cfg.Parallelism, config.ValidateIntRange(1, 64))
	cfg.Parallelism = res.Value.(int)
	warn("Parallelism", res)

	res = config.LoadEnvDuration("INGEST_LOCK_STALE_AFTER", cfg.LockStaleAfter, config.ValidatePositiveDuration)
	cfg.LockStaleAfter = res.Value.(time.Duration)
	warn("LockStaleAfter", res)

	res = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, config.ValidateIntRange(1024, 65535))
	cfg.HealthPort = res.Value.(int)
	warn("HealthPort", res)

	return cfg
}
