// Package chat runs the conversation game: a Tagalog tutor backed by an
// OpenAI-compatible chat completion API.
//
// Without an API key, or when the provider keeps failing, the tutor answers
// from a small set of canned replies so the game stays playable offline.
package chat
