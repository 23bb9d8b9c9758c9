package logger

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	clientKey    contextKey = "client_name"
	userAgentKey contextKey = "user_agent"
)

// WithRequestID returns a context that carries the given request ID so that
// WithContextFields can attach it to every log line for that request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithClientName returns a context that carries the resolved client identity
// name for inclusion in subsequent log lines.
func WithClientName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, clientKey, name)
}

// WithUserAgent returns a context that carries the caller's User-Agent
// header value for inclusion in subsequent log lines.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, userAgentKey, userAgent)
}

// WithContextFields returns a logger decorated with whatever request-scoped
// fields are present on ctx (request ID, client name, user agent). Fields
// that were never set are omitted rather than logged as empty.
func WithContextFields(base Logger, ctx context.Context) Logger {
	var args []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		args = append(args, "request_id", requestID)
	}
	if client, ok := ctx.Value(clientKey).(string); ok && client != "" {
		args = append(args, "client_name", client)
	}
	if userAgent, ok := ctx.Value(userAgentKey).(string); ok && userAgent != "" {
		args = append(args, "user_agent", userAgent)
	}

	return base.With(args...)
}
