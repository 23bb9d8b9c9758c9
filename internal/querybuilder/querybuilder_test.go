package querybuilder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elasticgraph/elasticgraph-go/internal/cursor"
	"github.com/elasticgraph/elasticgraph-go/internal/filter"
	"github.com/elasticgraph/elasticgraph-go/internal/querybuilder"
	"github.com/elasticgraph/elasticgraph-go/internal/schema"
)

func testBuilder() *querybuilder.Builder {
	return querybuilder.NewBuilder(querybuilder.Config{DefaultPageSize: 10, MaxPageSize: 100})
}

func TestBuildUsesDefaultPageSizeWhenUnrequested(t *testing.T) {
	q := testBuilder().Build(querybuilder.Options{HasRequestedFields: true})
	assert.Equal(t, 10, q.Size)
}

func TestBuildCapsRequestedPageSizeToMax(t *testing.T) {
	requested := 500
	q := testBuilder().Build(querybuilder.Options{RequestedPageSize: &requested, HasRequestedFields: true})
	assert.Equal(t, 100, q.Size)
}

func TestBuildHonorsRequestedPageSizeUnderMax(t *testing.T) {
	requested := 25
	q := testBuilder().Build(querybuilder.Options{RequestedPageSize: &requested, HasRequestedFields: true})
	assert.Equal(t, 25, q.Size)
}

func TestBuildAppendsIDTieBreakerWhenAbsent(t *testing.T) {
	q := testBuilder().Build(querybuilder.Options{
		SortClauses:        []schema.SortClause{{FieldPath: []string{"startedAt"}, Direction: schema.SortDescending}},
		HasRequestedFields: true,
	})
	require.Len(t, q.Sort, 2)
	assert.Equal(t, "startedAt", q.Sort[0].FieldPath)
	assert.Equal(t, "id", q.Sort[1].FieldPath)
	assert.Equal(t, schema.SortAscending, q.Sort[1].Direction)
}

func TestBuildDoesNotDuplicateExistingIDSort(t *testing.T) {
	q := testBuilder().Build(querybuilder.Options{
		SortClauses:        []schema.SortClause{{FieldPath: []string{"id"}, Direction: schema.SortDescending}},
		HasRequestedFields: true,
	})
	require.Len(t, q.Sort, 1)
	assert.Equal(t, schema.SortDescending, q.Sort[0].Direction)
}

func TestBuildMarksQueryEmptyWithNoFieldsAndNoCount(t *testing.T) {
	q := testBuilder().Build(querybuilder.Options{})
	assert.True(t, q.IsEmpty())
}

func TestBuildNotEmptyWhenTrackingTotalCountOnly(t *testing.T) {
	q := testBuilder().Build(querybuilder.Options{TrackTotalHits: true})
	assert.False(t, q.IsEmpty())
}

func TestBuildDefaultsFilterToMatchAll(t *testing.T) {
	q := testBuilder().Build(querybuilder.Options{HasRequestedFields: true})
	assert.Equal(t, filter.MatchAll(), q.Filter)
}

func TestBuildSearchAfterStopsAtFirstMissingSortField(t *testing.T) {
	values := cursor.NewSortValues(cursor.Entry{Field: "startedAt", Value: "2020-01-01"})
	after := cursor.DecodedCursor{SortValues: values}

	q := testBuilder().Build(querybuilder.Options{
		SortClauses: []schema.SortClause{
			{FieldPath: []string{"startedAt"}, Direction: schema.SortDescending},
			{FieldPath: []string{"id"}, Direction: schema.SortAscending},
		},
		After:              &after,
		HasRequestedFields: true,
	})

	// The cursor was issued before "id" joined the sort, so search_after
	// stops after the one field it has a value for.
	require.Equal(t, []any{"2020-01-01"}, q.SearchAfter)
}

func TestBuildSearchAfterEmptyForSingletonCursor(t *testing.T) {
	q := testBuilder().Build(querybuilder.Options{
		SortClauses:        []schema.SortClause{{FieldPath: []string{"id"}, Direction: schema.SortAscending}},
		After:              &cursor.Singleton,
		HasRequestedFields: true,
	})
	assert.Nil(t, q.SearchAfter)
}
