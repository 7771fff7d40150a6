// Package services defines shared utilities consumed by the progression
// service, the HTTP layer, and the external NLP integrations.
//
// Key responsibilities:
//   - Context helpers that stamp user IDs, game types, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent HTTP statuses.
package services
