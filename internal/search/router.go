// Package search fans a batch of logical queries (F) out to the datastore,
// one multi-search call per cluster, enforcing per-cluster deadlines and
// classifying failures before handing parsed responses (H) back to the
// caller.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"golang.org/x/sync/errgroup"

	"github.com/elasticgraph/elasticgraph-go/internal/querybuilder"
	"github.com/elasticgraph/elasticgraph-go/internal/response"
	"github.com/elasticgraph/elasticgraph-go/internal/tracker"
	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

// resultFilterPath restricts the multi-search response to the fields this
// package actually reads, reducing datastore-side serialization and
// client-side parse work.
var resultFilterPath = []string{
	"responses.hits.hits._id",
	"responses.hits.hits._source",
	"responses.hits.hits.sort",
	"responses.hits.total",
	"responses.aggregations",
	"responses.status",
	"responses.error",
	"responses._shards.failed",
	"responses._shards.failures",
	"took",
}

// Router batches logical queries per target cluster and issues one
// multi-search call per cluster.
type Router struct {
	clients   map[string]*opensearch.Client
	log       logger.Logger
	debugMode bool
}

// NewRouter returns a Router that dispatches to clients, keyed by cluster
// name. debugMode, when true, emits one structured log entry per batch
// showing the request and response (the spec's DEBUG_QUERY switch).
func NewRouter(clients map[string]*opensearch.Client, log logger.Logger, debugMode bool) *Router {
	return &Router{clients: clients, log: log, debugMode: debugMode}
}

// Execute runs queries, returning each query's response keyed by its
// position in the input slice. On empty input it performs no I/O. A query
// marked IsEmpty (e.g. a filter compiled to a guaranteed-no-match clause)
// is skipped entirely and answered with the canonical empty response,
// without any datastore round trip.
func (r *Router) Execute(ctx context.Context, queries []*querybuilder.Query, tr *tracker.Tracker) (map[*querybuilder.Query]*response.SearchResponse, error) {
	if len(queries) == 0 {
		return map[*querybuilder.Query]*response.SearchResponse{}, nil
	}

	results := make(map[*querybuilder.Query]*response.SearchResponse, len(queries))
	var liveQueries []*querybuilder.Query
	for _, q := range queries {
		if q.IsEmpty() {
			empty := response.Empty
			results[q] = &empty
			continue
		}
		liveQueries = append(liveQueries, q)
	}
	if len(liveQueries) == 0 {
		return results, nil
	}

	clusters := partitionByCluster(liveQueries)

	var resultsMu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	for clusterName, clusterQueries := range clusters {
		clusterName, clusterQueries := clusterName, clusterQueries
		eg.Go(func() error {
			client, ok := r.clients[clusterName]
			if !ok {
				return errors.New("no datastore client configured for cluster %q", clusterName, errors.WithErrorCode(errors.ESearchFailed))
			}

			clusterResults, err := r.executeOnCluster(egCtx, client, clusterName, clusterQueries, tr)
			if err != nil {
				return err
			}

			resultsMu.Lock()
			for q, resp := range clusterResults {
				results[q] = resp
			}
			resultsMu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Router) executeOnCluster(ctx context.Context, client *opensearch.Client, clusterName string, queries []*querybuilder.Query, tr *tracker.Tracker) (map[*querybuilder.Query]*response.SearchResponse, error) {
	now := time.Now()

	timeoutMs, err := resolveTimeoutMs(queries, now)
	if err != nil {
		return nil, err
	}

	body, sizes := serializeBatch(queries, timeoutMs)
	for _, size := range sizes {
		tr.RecordRequestSize(size)
	}
	for _, q := range queries {
		tr.RecordSearchIndexExpression(q.SearchIndexExpression)
		tr.RecordShardRoutingValues(q.ShardRoutingValues)
	}

	req := opensearchapi.MsearchRequest{
		Body:       bytes.NewReader(body),
		FilterPath: resultFilterPath,
	}

	callStart := time.Now()
	osResp, err := req.Do(ctx, client)
	clientDurationMs := float64(time.Since(callStart).Milliseconds())
	if err != nil {
		return nil, errors.Wrap(err, "multi-search request to cluster %q failed", clusterName, errors.WithErrorCode(errors.ESearchFailed))
	}
	defer osResp.Body.Close()

	respBody, err := io.ReadAll(osResp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read multi-search response from cluster %q", clusterName, errors.WithErrorCode(errors.ESearchFailed))
	}

	if osResp.IsError() {
		return nil, errors.New("multi-search request to cluster %q failed with status %d", clusterName, osResp.StatusCode, errors.WithErrorCode(errors.ESearchFailed))
	}

	var wire struct {
		Took      int64             `json:"took"`
		Responses []json.RawMessage `json:"responses"`
	}
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, errors.Wrap(err, "failed to decode multi-search response from cluster %q", clusterName, errors.WithErrorCode(errors.ESearchFailed))
	}

	if len(wire.Responses) != len(queries) {
		return nil, errors.New(
			"multi-search response from cluster %q had %d responses for %d queries",
			clusterName, len(wire.Responses), len(queries),
			errors.WithErrorCode(errors.ESearchFailed),
		)
	}

	tr.RecordDurations(clientDurationMs, float64(wire.Took))

	results := make(map[*querybuilder.Query]*response.SearchResponse, len(queries))
	for i, raw := range wire.Responses {
		q := queries[i]

		var probe struct {
			Status int `json:"status"`
			Shards struct {
				Failed int `json:"failed"`
			} `json:"_shards"`
			Error json.RawMessage `json:"error"`
		}
		_ = json.Unmarshal(raw, &probe)

		if probe.Status >= 400 || probe.Error != nil {
			return nil, errors.New(
				"search failed for index expression %q in cluster %q: %s",
				q.SearchIndexExpression, clusterName, string(probe.Error),
				errors.WithErrorCode(errors.ESearchFailed),
			)
		}
		if probe.Shards.Failed > 0 {
			r.log.Warnw("search response had shard-level failures",
				"cluster", clusterName,
				"search_index_expression", q.SearchIndexExpression,
				"shards_failed", probe.Shards.Failed,
			)
		}

		parsed, err := response.Parse(raw, q.TrackTotalHits)
		if err != nil {
			return nil, err
		}
		results[q] = parsed
	}

	if r.debugMode {
		r.log.Infow("DEBUG_QUERY multi-search batch",
			"cluster", clusterName,
			"request", string(body),
			"response", string(respBody),
		)
	}

	return results, nil
}

// resolveTimeoutMs returns the minimum remaining time, in milliseconds,
// across queries with a deadline, or 0 (no timeout applied) when none of
// them carry one. It fails fast when any deadline has already passed.
func resolveTimeoutMs(queries []*querybuilder.Query, now time.Time) (int64, error) {
	var (
		min    time.Duration
		hasAny bool
		minSet bool
	)
	for _, q := range queries {
		if q.Deadline == nil {
			continue
		}
		hasAny = true
		remaining := q.Deadline.Sub(now)
		if remaining <= 0 {
			return 0, errors.New(
				"request for %q already %dms past its deadline",
				q.SearchIndexExpression, -remaining.Milliseconds(),
				errors.WithErrorCode(errors.ERequestExceededDeadline),
			)
		}
		if !minSet || remaining < min {
			min = remaining
			minSet = true
		}
	}
	if !hasAny {
		return 0, nil
	}
	return min.Milliseconds(), nil
}

// serializeBatch renders queries as alternating multi-search header/body
// lines, returning the full wire body and each query's individual
// serialized size in bytes.
func serializeBatch(queries []*querybuilder.Query, timeoutMs int64) ([]byte, []int) {
	var buf bytes.Buffer
	sizes := make([]int, len(queries))

	for i, q := range queries {
		header := map[string]any{"index": q.SearchIndexExpression}
		if len(q.ShardRoutingValues) > 0 {
			header["routing"] = strings.Join(q.ShardRoutingValues, ",")
		}

		bodyDoc := map[string]any{
			"query": q.Filter,
			"size":  q.Size,
			"sort":  sortWireList(q.Sort),
		}
		if q.TrackTotalHits {
			bodyDoc["track_total_hits"] = true
		}
		if len(q.SourceIncludes) > 0 {
			bodyDoc["_source"] = q.SourceIncludes
		}
		if len(q.Aggregations) > 0 {
			bodyDoc["aggs"] = q.Aggregations
		}
		if len(q.SearchAfter) > 0 {
			bodyDoc["search_after"] = q.SearchAfter
		}
		if timeoutMs > 0 {
			bodyDoc["timeout"] = fmt.Sprintf("%dms", timeoutMs)
		}

		start := buf.Len()
		headerLine, _ := json.Marshal(header)
		buf.Write(headerLine)
		buf.WriteByte('\n')
		bodyLine, _ := json.Marshal(bodyDoc)
		buf.Write(bodyLine)
		buf.WriteByte('\n')
		sizes[i] = buf.Len() - start
	}

	return buf.Bytes(), sizes
}

func sortWireList(sort []querybuilder.SortEntry) []map[string]any {
	wire := make([]map[string]any, len(sort))
	for i, s := range sort {
		wire[i] = map[string]any{s.FieldPath: map[string]any{"order": string(s.Direction)}}
	}
	return wire
}

func partitionByCluster(queries []*querybuilder.Query) map[string][]*querybuilder.Query {
	clusters := make(map[string][]*querybuilder.Query)
	for _, q := range queries {
		clusters[q.ClusterName] = append(clusters[q.ClusterName], q)
	}
	return clusters
}
