package search

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elasticgraph/elasticgraph-go/internal/querybuilder"
	"github.com/elasticgraph/elasticgraph-go/internal/response"
	"github.com/elasticgraph/elasticgraph-go/internal/tracker"
	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

func TestPartitionByClusterGroupsQueries(t *testing.T) {
	a := &querybuilder.Query{ClusterName: "main"}
	b := &querybuilder.Query{ClusterName: "archive"}
	c := &querybuilder.Query{ClusterName: "main"}

	clusters := partitionByCluster([]*querybuilder.Query{a, b, c})
	require.Len(t, clusters, 2)
	assert.Equal(t, []*querybuilder.Query{a, c}, clusters["main"])
	assert.Equal(t, []*querybuilder.Query{b}, clusters["archive"])
}

func TestResolveTimeoutMsTakesMinimumAcrossDeadlines(t *testing.T) {
	now := time.Now()
	soon := now.Add(500 * time.Millisecond)
	later := now.Add(5 * time.Second)

	timeoutMs, err := resolveTimeoutMs([]*querybuilder.Query{
		{Deadline: &soon},
		{Deadline: &later},
		{}, // no deadline at all
	}, now)
	require.NoError(t, err)
	assert.InDelta(t, 500, timeoutMs, 10)
}

func TestResolveTimeoutMsZeroWhenNoDeadlines(t *testing.T) {
	timeoutMs, err := resolveTimeoutMs([]*querybuilder.Query{{}, {}}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), timeoutMs)
}

func TestResolveTimeoutMsErrorsOnPastDeadline(t *testing.T) {
	now := time.Now()
	past := now.Add(-200 * time.Millisecond)

	_, err := resolveTimeoutMs([]*querybuilder.Query{{Deadline: &past}}, now)
	require.Error(t, err)
	assert.Equal(t, errors.ERequestExceededDeadline, errors.ErrorCode(err))
}

func TestSerializeBatchProducesAlternatingHeaderBodyLines(t *testing.T) {
	q := &querybuilder.Query{
		SearchIndexExpression: "widgets_rollover__*",
		ShardRoutingValues:    []string{"tenant-a", "tenant-b"},
		Filter:                map[string]any{"match_all": map[string]any{}},
		Sort:                  []querybuilder.SortEntry{{FieldPath: "id", Direction: "asc"}},
		Size:                  10,
	}

	body, sizes := serializeBatch([]*querybuilder.Query{q}, 0)
	require.Len(t, sizes, 1)
	assert.Greater(t, sizes[0], 0)

	var header map[string]any
	var bodyDoc map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	require.NoError(t, dec.Decode(&header))
	require.NoError(t, dec.Decode(&bodyDoc))

	assert.Equal(t, "widgets_rollover__*", header["index"])
	assert.Equal(t, "tenant-a,tenant-b", header["routing"])
	assert.Equal(t, float64(10), bodyDoc["size"])
}

func TestExecuteSkipsEmptyQueriesWithoutDatastoreIO(t *testing.T) {
	builder := querybuilder.NewBuilder(querybuilder.Config{})
	emptyQuery := builder.Build(querybuilder.Options{
		ClusterName:        "main",
		HasRequestedFields: false,
		TrackTotalHits:     false,
	})

	log, _ := logger.NewForTest()
	// No clients configured: if Execute tried to dispatch this query it
	// would fail looking up a cluster client, proving the skip took effect.
	router := NewRouter(map[string]*opensearch.Client{}, log, false)

	results, err := router.Execute(context.Background(), []*querybuilder.Query{emptyQuery}, tracker.New())
	require.NoError(t, err)
	require.Contains(t, results, emptyQuery)
	assert.True(t, results[emptyQuery].IsEmpty())
	assert.Equal(t, &response.Empty, results[emptyQuery])
}

func TestSerializeBatchIncludesTimeoutWhenSet(t *testing.T) {
	q := &querybuilder.Query{SearchIndexExpression: "widgets", Filter: map[string]any{}}
	body, _ := serializeBatch([]*querybuilder.Query{q}, 1500)

	var header, bodyDoc map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	require.NoError(t, dec.Decode(&header))
	require.NoError(t, dec.Decode(&bodyDoc))
	assert.Equal(t, "1500ms", bodyDoc["timeout"])
}
