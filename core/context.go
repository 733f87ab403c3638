package core

import "context"

// Context keys for analysis options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	analysisIDKey     contextKey = "analysisID"
)

// WithSuppressHeader returns a context in which analysis headers are not printed.
// The MCP server uses it so stdout only carries protocol messages.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	suppress, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && suppress
}

// withAnalysisID stores the tracked run in the context
func withAnalysisID(ctx context.Context, analysisID int64) context.Context {
	return context.WithValue(ctx, analysisIDKey, analysisID)
}

// getAnalysisID returns the tracked run from context
func getAnalysisID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(analysisIDKey).(int64)
	return id, ok
}
