// Package tracker accumulates per-request datastore query details (hidden
// types encountered, shard routing values used, search index expressions
// queried, request sizes, and client/server-observed durations) so the
// query executor (I) can fold them into one structured log entry and
// Prometheus observation at the end of a request, no matter how many
// concurrent resolver tasks contributed to it.
package tracker

import (
	"sort"
	"sync"

	"github.com/elasticgraph/elasticgraph-go/internal/metric"
)

var (
	clientDurationHistogram = metric.NewHistogram(
		"elasticgraph_datastore_query_client_duration_ms",
		"Caller-observed wall-clock duration of datastore queries, in milliseconds.",
		1, 2, 16,
	)
	serverDurationHistogram = metric.NewHistogram(
		"elasticgraph_datastore_query_server_duration_ms",
		"Datastore-reported duration of datastore queries, in milliseconds.",
		1, 2, 16,
	)
	requestSizeHistogram = metric.NewHistogram(
		"elasticgraph_datastore_request_size_bytes",
		"Serialized size of a single multi-search body line, in bytes.",
		64, 2, 16,
	)
)

// Tracker is a thread-safe, per-request accumulator. Its mutation methods
// may be called concurrently by resolver tasks sharing one request; a
// single coarse mutex is acceptable since datastore latency dwarfs the
// contention window.
type Tracker struct {
	mu sync.Mutex

	hiddenTypes      map[string]struct{}
	shardRouting     map[string]struct{}
	searchIndexExprs map[string]struct{}
	requestSizes     []int

	clientDurationMs float64
	serverDurationMs float64
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{
		hiddenTypes:      make(map[string]struct{}),
		shardRouting:     make(map[string]struct{}),
		searchIndexExprs: make(map[string]struct{}),
	}
}

// RecordHiddenType notes that typeName was resolved during this request.
func (t *Tracker) RecordHiddenType(typeName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hiddenTypes[typeName] = struct{}{}
}

// RecordShardRoutingValues merges values into the request's shard routing
// value set.
func (t *Tracker) RecordShardRoutingValues(values []string) {
	if len(values) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, v := range values {
		t.shardRouting[v] = struct{}{}
	}
}

// RecordSearchIndexExpression notes that expr was queried during this
// request.
func (t *Tracker) RecordSearchIndexExpression(expr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.searchIndexExprs[expr] = struct{}{}
}

// RecordRequestSize appends the serialized size (in bytes) of one
// multi-search body line.
func (t *Tracker) RecordRequestSize(sizeBytes int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requestSizes = append(t.requestSizes, sizeBytes)
}

// RecordDurations adds to the request's accumulated client- and
// server-observed durations. Property 11 (client duration never less than
// server duration) is an invariant of how callers measure, not of this
// accumulator; RecordDurations only sums what it's given.
func (t *Tracker) RecordDurations(clientMs, serverMs float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clientDurationMs += clientMs
	t.serverDurationMs += serverMs
}

// HiddenTypes returns the accumulated hidden-type names, sorted.
func (t *Tracker) HiddenTypes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedKeys(t.hiddenTypes)
}

// ShardRoutingValues returns the accumulated shard routing values, sorted.
func (t *Tracker) ShardRoutingValues() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedKeys(t.shardRouting)
}

// SearchIndexExpressions returns the accumulated search index expressions,
// sorted.
func (t *Tracker) SearchIndexExpressions() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedKeys(t.searchIndexExprs)
}

// RequestSizes returns the accumulated per-query request sizes, in the
// order they were recorded.
func (t *Tracker) RequestSizes() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int, len(t.requestSizes))
	copy(out, t.requestSizes)
	return out
}

// ClientDurationMs returns the accumulated caller-observed duration.
func (t *Tracker) ClientDurationMs() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clientDurationMs
}

// ServerDurationMs returns the accumulated datastore-reported duration.
func (t *Tracker) ServerDurationMs() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.serverDurationMs
}

// Flush reports the request's accumulated durations and request sizes to
// Prometheus. Call once, at the end of a request.
func (t *Tracker) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	clientDurationHistogram.Observe(t.clientDurationMs)
	serverDurationHistogram.Observe(t.serverDurationMs)
	for _, size := range t.requestSizes {
		requestSizeHistogram.Observe(float64(size))
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
