package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for loop run IDs.
	RunIDKey contextKey = "run_id"

	// ChainKey is the context key for chain names.
	ChainKey contextKey = "chain"

	// ShapeKey is the context key for apply shapes.
	ShapeKey contextKey = "shape"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithChain adds a chain name to the context.
func WithChain(ctx context.Context, chain string) context.Context {
	return context.WithValue(ctx, ChainKey, chain)
}

// GetChain retrieves the chain name from the context.
func GetChain(ctx context.Context) string {
	if chain, ok := ctx.Value(ChainKey).(string); ok {
		return chain
	}
	return ""
}

// WithShape adds an apply shape to the context.
func WithShape(ctx context.Context, shape string) context.Context {
	return context.WithValue(ctx, ShapeKey, shape)
}

// GetShape retrieves the apply shape from the context.
func GetShape(ctx context.Context) string {
	if shape, ok := ctx.Value(ShapeKey).(string); ok {
		return shape
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, "run_id", runID)
	}
	if chain := GetChain(ctx); chain != "" {
		fields = append(fields, "chain", chain)
	}
	if shape := GetShape(ctx); shape != "" {
		fields = append(fields, "shape", shape)
	}

	return fields
}
