package services

import "context"

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	gameKey      contextKey = "game"
	requestIDKey contextKey = "request_id"
)

// WithUserID annotates context with the learner identifier.
func WithUserID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext extracts the learner identifier if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithGame annotates context with the game type being played.
func WithGame(ctx context.Context, game string) context.Context {
	if game == "" {
		return ctx
	}
	return context.WithValue(ctx, gameKey, game)
}

// GameFromContext returns the game type if present.
func GameFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(gameKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
