// Package main hosts the salita CLI entrypoint and command graph.
//
// The Cobra command tree runs the HTTP API server (serve) and exposes the same
// learner operations directly against the local database: registering
// learners, recording rounds, and inspecting progress, quests, history, and
// the leaderboard. The tag, verify, and chat commands go through the same NLP
// proxy as the server, so they also fall back to the local tagger and canned
// replies when the external services are unreachable.
//
// Every data command accepts --json for machine-readable output. Logs from
// non-server commands go to the log file only so tables stay clean.
package main
