// Package config loads, normalizes, and validates salita configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SALITA_API_TOKEN and SALITA_NLP_URL. The Config type centralizes every knob
// the server and CLI need, so the data directory, NLP service endpoint, and
// chat model credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
