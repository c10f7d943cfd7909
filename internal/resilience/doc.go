// Package resilience groups the fault tolerance helpers used by the
// ingestion pipeline when talking to third-party feed and article
// hosts: per-upstream circuit breakers and retry with exponential
// backoff and jitter.
package resilience
