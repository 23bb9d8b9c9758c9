// Package auth identifies the calling client of a query so the executor
// can attribute logs and metrics to it. ElasticGraph performs no end-user
// authentication: a client identity names the caller (an internal admin
// tool, a known downstream service, an anonymous browser) for observability
// purposes only, never for authorization decisions.
package auth

import (
	"context"

	"github.com/elasticgraph/elasticgraph-go/internal/httptypes"
)

// Identity names the caller of a query.
type Identity struct {
	// Name identifies the client for logging, e.g. "search-ui" or
	// "INTERNAL". Two well-known values are distinguished: Internal marks
	// the process's own warm-up/health queries, and Anonymous marks a
	// request that supplied no identifying information at all.
	Name string

	// SourceDescription is a human-readable note on how the identity was
	// determined (e.g. which header carried it), included in logs to help
	// diagnose misattributed queries.
	SourceDescription string
}

// Internal is the identity used for the server's own warm-up and health
// queries. The query executor never logs or emits SLO metrics for it.
var Internal = Identity{Name: "INTERNAL", SourceDescription: "in-process"}

// Anonymous is the identity assigned to a request that carries no client
// identification at all.
var Anonymous = Identity{Name: "ANONYMOUS", SourceDescription: "no client identity header present"}

// IsInternal reports whether id is the distinguished internal identity.
func (id Identity) IsInternal() bool {
	return id.Name == Internal.Name
}

// Resolver determines the calling client's identity from an inbound
// request. The default resolver (HeaderResolver) is header-based; a host
// application can substitute any other resolution strategy (mTLS client
// cert, signed token, service mesh identity) without the executor itself
// needing to change, since none of it affects authorization.
type Resolver interface {
	Resolve(req *httptypes.Request) Identity
}

// HeaderResolverFunc adapts a plain function to Resolver.
type HeaderResolverFunc func(req *httptypes.Request) Identity

// Resolve implements Resolver.
func (f HeaderResolverFunc) Resolve(req *httptypes.Request) Identity {
	return f(req)
}

// ClientNameHeader is the header a HeaderResolver reads to name the caller.
const ClientNameHeader = "ElasticGraph-Client-Name"

// NewHeaderResolver returns a Resolver that reads the caller's identity
// from ClientNameHeader, falling back to Anonymous when absent.
func NewHeaderResolver() Resolver {
	return HeaderResolverFunc(func(req *httptypes.Request) Identity {
		if name, ok := req.Header(ClientNameHeader); ok && name != "" {
			return Identity{Name: name, SourceDescription: "from " + ClientNameHeader + " header"}
		}
		return Anonymous
	})
}

type contextKey string

const identityKey contextKey = "eg_client_identity"

// WithIdentity returns a context carrying id for downstream retrieval via
// FromContext.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the client identity previously attached with
// WithIdentity, defaulting to Anonymous when none was attached.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey).(Identity); ok {
		return id
	}
	return Anonymous
}
