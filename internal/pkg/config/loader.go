// Package config provides reusable helpers for loading configuration from
// environment variables with validation and fail-open fallbacks. Invalid
// values never abort startup: the default is applied and a warning is
// returned for the caller to log.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResult represents the result of loading a single configuration value.
// Value holds the loaded (or fallback) value; Warning is non-empty when the
// environment value was present but rejected.
type LoadResult struct {
	Value           interface{}
	Warning         string
	FallbackApplied bool
}

// LoadEnvString loads a string value from an environment variable,
// returning the default when the variable is unset or empty.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback loads a string value and validates it, falling back to
// the default (with a warning) when validation fails. A nil validator skips
// validation.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return LoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return LoadResult{
				Value:           defaultValue,
				Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to %q", envKey, value, err, defaultValue),
				FallbackApplied: true,
			}
		}
	}
	return LoadResult{Value: value}
}

// LoadEnvDuration loads a time.Duration value, parsing with
// time.ParseDuration and validating before use. Parse or validation
// failures fall back to the default with a warning.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return LoadResult{Value: defaultValue}
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return LoadResult{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to %v", envKey, value, err, defaultValue),
			FallbackApplied: true,
		}
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return LoadResult{
				Value:           defaultValue,
				Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to %v", envKey, value, err, defaultValue),
				FallbackApplied: true,
			}
		}
	}
	return LoadResult{Value: parsed}
}

// LoadEnvInt loads an integer value with optional validation, falling back
// to the default with a warning on parse or validation failure.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return LoadResult{Value: defaultValue}
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return LoadResult{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to %d", envKey, value, err, defaultValue),
			FallbackApplied: true,
		}
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return LoadResult{
				Value:           defaultValue,
				Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to %d", envKey, value, err, defaultValue),
				FallbackApplied: true,
			}
		}
	}
	return LoadResult{Value: parsed}
}

// LoadEnvBool loads a boolean value ("true"/"false", "1"/"0").
// Unparseable values fall back to the default with a warning.
func LoadEnvBool(envKey string, defaultValue bool) LoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return LoadResult{Value: defaultValue}
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return LoadResult{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to %t", envKey, value, err, defaultValue),
			FallbackApplied: true,
		}
	}
	return LoadResult{Value: parsed}
}
