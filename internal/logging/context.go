package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one validation run across every log line it emits.
	FieldRunID = "run_id"
	// FieldPass is the pipeline pass currently executing.
	FieldPass = "pass"
	// FieldLine is the 1-based input line of the row being processed.
	FieldLine = "line"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	runIDKey contextKey = iota
	passKey
)

// WithRunID stores the run identifier on the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithPass stores the current pipeline pass name on the context.
func WithPass(ctx context.Context, pass string) context.Context {
	return context.WithValue(ctx, passKey, pass)
}

// PassFromContext returns the current pass name, if any.
func PassFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	pass, ok := ctx.Value(passKey).(string)
	return pass, ok && pass != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if pass, ok := PassFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPass, pass))
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
	return logger.With(Args(fields...)...)
}
