package relation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elasticgraph/elasticgraph-go/internal/relation"
	"github.com/elasticgraph/elasticgraph-go/internal/schema"
)

func TestNewJoinOutboundMatchesIDAgainstForeignKey(t *testing.T) {
	rel := &schema.Relation{ForeignKey: "seasonId", RelatedType: "Season", Many: false}
	join := relation.NewJoin(rel)

	assert.Equal(t, "id", join.DocumentIDFieldName)
	assert.Equal(t, "seasonId", join.FilterIDFieldName)
	assert.Equal(t, relation.CardinalityOne, join.IDCardinality)
	assert.Equal(t, relation.CardinalityOne, join.DocCardinality)
}

func TestNewJoinInboundAlwaysOneIDCardinality(t *testing.T) {
	rel := &schema.Relation{SelfReferentialForeignKey: "seasonId", RelatedType: "Award", Many: true}
	join := relation.NewJoin(rel)

	assert.Equal(t, "seasonId", join.DocumentIDFieldName)
	assert.Equal(t, "id", join.FilterIDFieldName)
	assert.Equal(t, relation.CardinalityOne, join.IDCardinality)
	assert.Equal(t, relation.CardinalityMany, join.DocCardinality)
}

func TestExtractIDOrIDsFromListValue(t *testing.T) {
	rel := &schema.Relation{ForeignKey: "awardIds", Many: true}
	join := relation.NewJoin(rel)

	var warned bool
	ids := join.ExtractIDOrIDsFrom(map[string]any{"awardIds": []any{"a1", "a2"}}, func(string, map[string]any) { warned = true })
	assert.Equal(t, []string{"a1", "a2"}, ids)
	assert.False(t, warned)
}

func TestExtractIDOrIDsFromWarnsOnCardinalityMismatch(t *testing.T) {
	rel := &schema.Relation{ForeignKey: "seasonId", Many: false}
	join := relation.NewJoin(rel)

	var warnedMsg string
	ids := join.ExtractIDOrIDsFrom(map[string]any{"seasonId": []any{"s1", "s2"}}, func(msg string, _ map[string]any) { warnedMsg = msg })
	require.Len(t, ids, 2)
	assert.NotEmpty(t, warnedMsg)
}

func TestExtractIDOrIDsFromNestedForeignKey(t *testing.T) {
	rel := &schema.Relation{ForeignKey: "id", ForeignKeyNestedPaths: []string{"sponsor"}}
	join := relation.NewJoin(rel)

	doc := map[string]any{"sponsor": map[string]any{"id": "sponsor-1"}}
	ids := join.ExtractIDOrIDsFrom(doc, nil)
	assert.Equal(t, []string{"sponsor-1"}, ids)
}

func TestNormalizeDocumentsTrimsToOneDeterministically(t *testing.T) {
	rel := &schema.Relation{ForeignKey: "seasonId", Many: false}
	join := relation.NewJoin(rel)

	fetched := []map[string]any{
		{"id": "b"},
		{"id": "a"},
	}
	normalized := join.NormalizeDocuments(fetched, nil)
	require.Len(t, normalized, 1)
	assert.Equal(t, "a", normalized[0]["id"])
}

func TestNormalizeDocumentsPassesThroughForManyRelations(t *testing.T) {
	rel := &schema.Relation{SelfReferentialForeignKey: "seasonId", Many: true}
	join := relation.NewJoin(rel)

	fetched := []map[string]any{{"id": "a"}, {"id": "b"}}
	normalized := join.NormalizeDocuments(fetched, nil)
	assert.Len(t, normalized, 2)
}
