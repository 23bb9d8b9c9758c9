package graphql

import (
	"net/http"
	"strconv"
	"time"

	"github.com/elasticgraph/elasticgraph-go/internal/httptypes"
)

// RequestTimeoutHeader lets a caller request a tighter deadline than the
// server's configured maximum; it can only ever shorten the effective
// deadline, never extend it.
const RequestTimeoutHeader = "ElasticGraph-Request-Timeout-Ms"

// resolveDeadline returns now + min(requested header value, maxMs), or
// now + maxMs when the header is absent.
func resolveDeadline(req *httptypes.Request, maxMs int64, now time.Time) (time.Time, error) {
	budget := maxMs

	if raw, ok := req.Header(RequestTimeoutHeader); ok && raw != "" {
		requested, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || requested <= 0 {
			return time.Time{}, newStatusError(http.StatusBadRequest,
				"`%s` header value of %q is invalid", RequestTimeoutHeader, raw)
		}
		if requested < budget {
			budget = requested
		}
	}

	return now.Add(time.Duration(budget) * time.Millisecond), nil
}
