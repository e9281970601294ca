package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	traceKey   contextKey = "llm_trace"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithTraceID tags every request made under ctx with an id, so retries of
// one logical call can be grouped in the logs.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey, id)
}

// TraceIDFrom returns the trace id attached to ctx, or "".
func TraceIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(traceKey).(string)
	return v
}
