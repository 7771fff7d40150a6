// Package metrics exposes Prometheus collectors for game activity, NLP answer
// sources, and HTTP traffic.
//
// A nil *Metrics is valid and records nothing, so callers can pass it through
// when metrics are disabled in configuration.
package metrics
