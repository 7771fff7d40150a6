package logging

import (
	"context"
	"log/slog"

	"salita/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldUserID is the standardized structured logging key for learner identifiers.
	FieldUserID = "user_id"
	// FieldGame is the standardized structured logging key for game types.
	FieldGame = "game"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldSource records whether an NLP answer came from the service or the local fallback.
	FieldSource = "source"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.UserIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldUserID, id))
	}
	if game, ok := services.GameFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldGame, game))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
