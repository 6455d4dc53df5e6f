package logging

import "context"

// contextKey keeps the logging context values from colliding with keys
// set by other packages.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	leadIDKey    contextKey = "lead_id"
)

// ContextWithRequestID returns a context carrying the request ID that
// WithContext attaches to log entries.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts a request ID stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

// ContextWithLeadID returns a context carrying the lead ID that
// WithContext attaches to log entries.
func ContextWithLeadID(ctx context.Context, leadID string) context.Context {
	return context.WithValue(ctx, leadIDKey, leadID)
}

// LeadIDFromContext extracts a lead ID stored by ContextWithLeadID.
func LeadIDFromContext(ctx context.Context) (string, bool) {
	leadID, ok := ctx.Value(leadIDKey).(string)
	return leadID, ok
}
