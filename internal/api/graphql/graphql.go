// Package graphql is the HTTP-facing query executor: it accepts a raw
// GraphQL request in any of its three wire forms, establishes the
// per-request deadline and query-details tracker, delegates to a GraphQL
// engine, and logs a structured summary of what the datastore actually
// did to answer it.
package graphql

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/elasticgraph/elasticgraph-go/internal/auth"
	"github.com/elasticgraph/elasticgraph-go/internal/httptypes"
	"github.com/elasticgraph/elasticgraph-go/internal/metric"
	"github.com/elasticgraph/elasticgraph-go/internal/schema"
	"github.com/elasticgraph/elasticgraph-go/internal/search"
	"github.com/elasticgraph/elasticgraph-go/internal/tracker"
	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

// EngineResult is what a GraphQL engine returns for one executed query:
// the raw JSON "data" value (already shaped by the engine's own resolver
// tree) plus any errors it collected along the way.
type EngineResult struct {
	Data   json.RawMessage
	Errors []error
}

// Engine executes one parsed GraphQL request against a schema. In
// production this is satisfied by a *graphql.Schema from
// graph-gophers/graphql-go; tests substitute a stub.
type Engine interface {
	Execute(ctx context.Context, query string, operationName string, variables map[string]any) EngineResult
}

// ContextHook is the `with_context` extension seam: it runs once per
// request, after the base context has been merged with deadline/schema/
// tracker/router values, and can attach additional values a host
// application's resolvers need. The base implementation (DefaultContextHook)
// attaches only the inbound HTTP request.
type ContextHook func(ctx context.Context, req *httptypes.Request) context.Context

// DefaultContextHook attaches the inbound request to the context and
// changes nothing else.
func DefaultContextHook(ctx context.Context, req *httptypes.Request) context.Context {
	return withHTTPRequest(ctx, req)
}

// ClientResolver identifies the calling client for a request, optionally
// short-circuiting with a response of its own (e.g. to reject a client
// the host application has blocked) instead of an identity.
type ClientResolver func(req *httptypes.Request) (auth.Identity, *httptypes.Response)

// ResolverFromAuth adapts a plain auth.Resolver (which never short-circuits)
// to a ClientResolver.
func ResolverFromAuth(r auth.Resolver) ClientResolver {
	return func(req *httptypes.Request) (auth.Identity, *httptypes.Response) {
		return r.Resolve(req), nil
	}
}

// Config holds the executor's deployment-tunable limits.
type Config struct {
	// MaxRequestTimeoutMs bounds how long any single request may run,
	// regardless of what the caller's ElasticGraph-Request-Timeout-Ms
	// header asks for.
	MaxRequestTimeoutMs int64

	// SlowQueryThresholdMs is the duration above which a completed query
	// is logged with a warning alongside its query text, as received; the
	// logged text is not sanitized.
	SlowQueryThresholdMs int64
}

// Executor is the query-executor boundary described by the spec: it
// merges deadline/schema/tracker/router state into the request context,
// delegates to Engine, and logs an ElasticGraphQueryExecutorQueryDuration
// entry once the query completes.
type Executor struct {
	Engine         Engine
	Schema         *schema.Definition
	Router         *search.Router
	ClientResolver ClientResolver
	ContextHook    ContextHook
	Logger         logger.Logger
	Config         Config
}

var queryDurationHistogram = metric.NewHistogram(
	"elasticgraph_query_executor_duration_ms", "Query executor wall-clock duration in milliseconds.", 1, 4, 8,
)

// Handle runs the full request-handling contract: method/content-type
// validation, body parsing, deadline resolution, context assembly,
// delegation to Engine, and post-execution logging.
func (e *Executor) Handle(ctx context.Context, req *httptypes.Request) *httptypes.Response {
	hook := e.ContextHook
	if hook == nil {
		hook = DefaultContextHook
	}
	resolveClient := e.ClientResolver
	if resolveClient == nil {
		resolveClient = ResolverFromAuth(auth.NewHeaderResolver())
	}

	identity, shortCircuit := resolveClient(req)
	if shortCircuit != nil {
		return shortCircuit
	}
	ctx = auth.WithIdentity(ctx, identity)

	parsed, err := parse(req)
	if err != nil {
		return errorResponse(err)
	}

	now := time.Now()
	deadline, err := resolveDeadline(req, e.Config.MaxRequestTimeoutMs, now)
	if err != nil {
		return errorResponse(err)
	}

	pruneNullVariables(parsed.Variables)

	tr := tracker.New()
	execCtx := e.buildContext(ctx, req, deadline, tr, hook)

	result := e.Engine.Execute(execCtx, parsed.Query, parsed.OperationName, parsed.Variables)
	duration := time.Since(now)
	queryDurationHistogram.Observe(float64(duration.Milliseconds()))
	tr.Flush()

	if !identity.IsInternal() {
		e.logOutcome(identity, parsed, result, tr, duration)
	}

	if resp := timeoutResponseFor(result); resp != nil {
		return resp
	}

	return marshalResult(result)
}

func (e *Executor) buildContext(ctx context.Context, req *httptypes.Request, deadline time.Time, tr *tracker.Tracker, hook ContextHook) context.Context {
	ctx = withDeadline(ctx, deadline)
	ctx = withSchema(ctx, e.Schema)
	if e.Schema != nil {
		ctx = withElementNames(ctx, e.Schema.ElementNames())
	}
	ctx = withTracker(ctx, tr)
	ctx = withRouter(ctx, e.Router)
	return hook(ctx, req)
}

// logOutcome emits the ElasticGraphQueryExecutorQueryDuration structured
// log entry and any warnings the completed query earned.
func (e *Executor) logOutcome(identity auth.Identity, req request, result EngineResult, tr *tracker.Tracker, duration time.Duration) {
	if e.Logger == nil {
		return
	}

	for _, qerr := range result.Errors {
		e.Logger.Errorw("GraphQL query returned an error", "client_name", identity.Name, "error", errors.ErrorMessage(qerr))
	}

	durationMs := float64(duration.Milliseconds())
	serverMs := tr.ServerDurationMs()
	overheadMs := durationMs - serverMs
	if overheadMs < 0 {
		overheadMs = 0
	}

	shardRoutingValues := tr.ShardRoutingValues()
	searchIndexExpressions := tr.SearchIndexExpressions()
	isSlow := e.Config.SlowQueryThresholdMs > 0 && int64(durationMs) > e.Config.SlowQueryThresholdMs

	e.Logger.Infow("ElasticGraphQueryExecutorQueryDuration",
		"client_name", identity.Name,
		"query_fingerprint", fingerprint(req.Query),
		"operation_name", req.OperationName,
		"duration_ms", durationMs,
		"datastore_server_duration_ms", serverMs,
		"overhead_ms", overheadMs,
		"shard_routing_values", strings.Join(shardRoutingValues, ","),
		"shard_routing_value_count", len(shardRoutingValues),
		"search_index_expressions", strings.Join(searchIndexExpressions, ","),
		"datastore_request_count", len(tr.RequestSizes()),
		"datastore_query_count", len(tr.RequestSizes()),
		"over_slow_threshold", isSlow,
		"slo_result", sloResult(req.Query, durationMs, e.Schema),
	)

	if hidden := tr.HiddenTypes(); len(hidden) > 0 {
		e.Logger.Warnw("query resolved one or more hidden types", "client_name", identity.Name, "hidden_types", strings.Join(hidden, ","))
	}

	if isSlow {
		e.Logger.Warnw("slow query exceeded threshold", "client_name", identity.Name, "threshold_ms", e.Config.SlowQueryThresholdMs, "duration_ms", durationMs, "query", req.Query)
	}
}

// egLatencySloPattern extracts the ms argument of an `@eg_latency_slo(ms:
// N)` directive from raw query text. The engine itself doesn't surface
// directive arguments back to the executor, so this reads the same text
// the engine parsed.
var egLatencySloPattern = regexp.MustCompile(`@eg_latency_slo\s*\(\s*ms\s*:\s*(\d+)\s*\)`)

// sloResult derives the "good"/"bad" SLO verdict from an `@eg_latency_slo`
// directive on the query, or "" when the query carries none.
func sloResult(query string, durationMs float64, def *schema.Definition) string {
	pattern := egLatencySloPattern
	if def != nil {
		names := def.ElementNames()
		if names.EGLatencySLO != "" && names.MS != "" {
			pattern = regexp.MustCompile(fmt.Sprintf(`@%s\s*\(\s*%s\s*:\s*(\d+)\s*\)`, regexp.QuoteMeta(names.EGLatencySLO), regexp.QuoteMeta(names.MS)))
		}
	}

	match := pattern.FindStringSubmatch(query)
	if match == nil {
		return ""
	}
	budgetMs, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return ""
	}
	if durationMs <= budgetMs {
		return "good"
	}
	return "bad"
}

// fingerprint is a stable, low-cardinality identifier for a query's shape,
// independent of the specific variable values supplied alongside it.
func fingerprint(query string) string {
	sum := sha256.Sum256([]byte(strings.Join(strings.Fields(query), " ")))
	return hex.EncodeToString(sum[:])[:16]
}

// pruneNullVariables recursively removes keys whose value is JSON null
// (decoded as a Go nil) so the engine never sees an explicit null compete
// with "argument absent" for a variable's default value.
func pruneNullVariables(variables map[string]any) {
	for key, value := range variables {
		if value == nil {
			delete(variables, key)
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			pruneNullVariables(nested)
		}
	}
}

// timeoutResponseFor reports the spec's 504 outcome when the engine's
// errors include one whose code is ERequestExceededDeadline.
func timeoutResponseFor(result EngineResult) *httptypes.Response {
	for _, err := range result.Errors {
		if errors.ErrorCode(err) == errors.ERequestExceededDeadline {
			return jsonResponse(http.StatusGatewayTimeout, []any{map[string]any{"message": "Search exceeded requested timeout."}})
		}
	}
	return nil
}

// marshalResult renders a successful (from the transport's perspective)
// engine result as the standard GraphQL JSON envelope.
func marshalResult(result EngineResult) *httptypes.Response {
	envelope := map[string]any{}
	if result.Data != nil {
		envelope["data"] = result.Data
	}
	if len(result.Errors) > 0 {
		errs := make([]map[string]any, len(result.Errors))
		for i, err := range result.Errors {
			message, extensions := extensionsFor(err)
			errs[i] = map[string]any{"message": message, "extensions": extensions}
		}
		envelope["errors"] = errs
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return jsonResponse(http.StatusInternalServerError, []any{map[string]any{"message": errors.InternalErrorMessage}})
	}
	return &httptypes.Response{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

// errorResponse renders a request-handling-contract failure (parse error,
// bad deadline header) as the standard GraphQL JSON error envelope.
func errorResponse(err error) *httptypes.Response {
	status := http.StatusBadRequest
	message := errors.ErrorMessage(err)

	var se *statusError
	if ok := asStatusError(err, &se); ok {
		status = se.status
		message = se.message
	}

	return jsonResponse(status, []any{map[string]any{"message": message}})
}

func jsonResponse(status int, errs []any) *httptypes.Response {
	body, _ := json.Marshal(map[string]any{"errors": errs})
	return &httptypes.Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

func asStatusError(err error, target **statusError) bool {
	if se, ok := err.(*statusError); ok {
		*target = se
		return true
	}
	return false
}
