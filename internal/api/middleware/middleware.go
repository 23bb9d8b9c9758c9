// Package middleware holds ambient HTTP middleware for the gateway server:
// request ID propagation, common response headers, user agent logging, and
// Prometheus request metrics. The gateway server's router chains the
// request ID, user agent and Prometheus middleware in front of the query
// executor; it does not chain the common response headers middleware.
package middleware

import "net/http"

// Handler wraps an http.Handler with additional behavior; its shape
// matches chi's own middleware signature so it plugs into r.Use directly.
type Handler func(next http.Handler) http.Handler
