// Package nlp tags and checks Tagalog text.
//
// The Proxy forwards requests to the external NLP service when it is enabled
// and reachable, and otherwise answers with a local heuristic tagger. Every
// answer carries its Source so callers and metrics can tell the two apart.
//
// The heuristic tagger emits Universal Dependencies part-of-speech tags. It
// knows the closed-class words of Tagalog (case markers, pronouns, linkers,
// particles) and recognises verbs by their affixes and aspect reduplication.
// It is good enough for a practice game, not for linguistics.
package nlp
