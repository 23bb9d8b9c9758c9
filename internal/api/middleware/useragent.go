package middleware

import (
	"net/http"

	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

const userAgentHeader = "User-Agent"

// NewUserAgentMiddleware adds the caller's User-Agent to the logger context
// if the header is present.
func NewUserAgentMiddleware() Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userAgent := r.Header.Get(userAgentHeader)
			if userAgent == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(logger.WithUserAgent(r.Context(), userAgent)))
		})
	}
}
