package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

// NewRequestIDMiddleware attaches a fresh request ID to the logger context
// so every log line emitted while handling this request can be correlated.
func NewRequestIDMiddleware() Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequestID(r.Context(), uuid.NewString())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
