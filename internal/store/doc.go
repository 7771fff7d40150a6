// Package store persists learners, their progression snapshots, and game
// history in SQLite.
//
// Progress is stored as one JSON document per learner next to the columns the
// leaderboard sorts on, so the engine's state can evolve without migrations.
// Game results are append-only history. Schema changes bump the version in
// schema.go; older databases are rejected with ErrSchemaMismatch.
package store
