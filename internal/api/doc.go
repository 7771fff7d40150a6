// Package api is the service facade shared by the HTTP server and the CLI. It
// loads and saves learner state around the pure progression engine, routes
// language requests to the NLP proxy and the chat tutor, and translates
// internal models into transport-friendly DTOs.
//
// # Key Types
//
// Service: every learner-facing operation. Methods return DTOs and errors
// tagged with the services markers, so the HTTP layer can map them to status
// codes without knowing where they came from.
//
// ProgressView/QuestBoard/GameOutcome: snapshots of a learner's progression.
//
// Status: readiness of the database, the NLP service, and the chat provider.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers.
// Timestamps use RFC3339 with milliseconds. Daily quests are refreshed on
// every read, so a learner who opens the app after midnight sees the new set
// before playing.
//
// Recording a game is a read-modify-write of the progress snapshot and is
// serialized per learner.
package api
