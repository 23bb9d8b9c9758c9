package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/elasticgraph/elasticgraph-go/internal/auth"
)

var totalRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "elasticgraph_http_requests_total",
		Help: "Number of HTTP requests handled by the gateway server.",
	},
	[]string{"path", "caller_type"},
)

var responseStatus = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "elasticgraph_http_response_status_total",
		Help: "Status of HTTP responses from the gateway server.",
	},
	[]string{"status"},
)

// PrometheusMiddleware adds basic request-count and response-status metrics
// to every request, labeling requests by the caller identity the
// ElasticGraph-Client-Name header carries.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(rw, r)

		callerType := "anonymous"
		if name := r.Header.Get(auth.ClientNameHeader); name != "" {
			if name == auth.Internal.Name {
				callerType = "internal"
			} else {
				callerType = "named"
			}
		}

		statusCode := rw.Status()

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "<invalid_path>"
		}

		sanitizedPath := strings.ToValidUTF8(routePattern, "<INVALID_UTF_SEQ>")

		responseStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
		totalRequests.WithLabelValues(sanitizedPath, callerType).Inc()
	})
}
