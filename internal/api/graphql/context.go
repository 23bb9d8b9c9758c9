package graphql

import (
	"context"
	"time"

	"github.com/elasticgraph/elasticgraph-go/internal/httptypes"
	"github.com/elasticgraph/elasticgraph-go/internal/schema"
	"github.com/elasticgraph/elasticgraph-go/internal/search"
	"github.com/elasticgraph/elasticgraph-go/internal/tracker"
)

// executorContextKey names the values the query executor merges into a
// request's context before delegating to the GraphQL engine, matching the
// exact names a resolver looks them up by.
type executorContextKey string

const (
	deadlineContextKey     executorContextKey = "monotonic_clock_deadline"
	schemaContextKey       executorContextKey = "elastic_graph_schema"
	elementNamesContextKey executorContextKey = "schema_element_names"
	trackerContextKey      executorContextKey = "elastic_graph_query_tracker"
	routerContextKey       executorContextKey = "datastore_search_router"
	httpRequestContextKey  executorContextKey = "http_request"
)

func withDeadline(ctx context.Context, deadline time.Time) context.Context {
	return context.WithValue(ctx, deadlineContextKey, deadline)
}

// Deadline returns the request's monotonic clock deadline, if the context
// was built by an Executor.
func Deadline(ctx context.Context) (time.Time, bool) {
	d, ok := ctx.Value(deadlineContextKey).(time.Time)
	return d, ok
}

func withSchema(ctx context.Context, def *schema.Definition) context.Context {
	return context.WithValue(ctx, schemaContextKey, def)
}

// SchemaFromContext returns the schema definition attached to ctx.
func SchemaFromContext(ctx context.Context) *schema.Definition {
	def, _ := ctx.Value(schemaContextKey).(*schema.Definition)
	return def
}

func withElementNames(ctx context.Context, names schema.ElementNames) context.Context {
	return context.WithValue(ctx, elementNamesContextKey, names)
}

// ElementNamesFromContext returns the schema element names attached to ctx.
func ElementNamesFromContext(ctx context.Context) schema.ElementNames {
	names, _ := ctx.Value(elementNamesContextKey).(schema.ElementNames)
	return names
}

func withTracker(ctx context.Context, tr *tracker.Tracker) context.Context {
	return context.WithValue(ctx, trackerContextKey, tr)
}

// TrackerFromContext returns the query details tracker attached to ctx.
func TrackerFromContext(ctx context.Context) *tracker.Tracker {
	tr, _ := ctx.Value(trackerContextKey).(*tracker.Tracker)
	return tr
}

func withRouter(ctx context.Context, router *search.Router) context.Context {
	return context.WithValue(ctx, routerContextKey, router)
}

// RouterFromContext returns the datastore search router attached to ctx.
func RouterFromContext(ctx context.Context) *search.Router {
	router, _ := ctx.Value(routerContextKey).(*search.Router)
	return router
}

func withHTTPRequest(ctx context.Context, req *httptypes.Request) context.Context {
	return context.WithValue(ctx, httpRequestContextKey, req)
}

// HTTPRequestFromContext returns the inbound HTTP request attached to ctx
// by the default with_context hook.
func HTTPRequestFromContext(ctx context.Context) *httptypes.Request {
	req, _ := ctx.Value(httpRequestContextKey).(*httptypes.Request)
	return req
}
