package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elasticgraph/elasticgraph-go/internal/filter"
)

func TestEqualToAnyOfClauseUsesIDsQueryForIDField(t *testing.T) {
	clause := equalToAnyOfClause("id", []any{"a", "b"})
	assert.Equal(t, filter.Clause{"ids": filter.Clause{"values": []any{"a", "b"}}}, clause)
}

func TestEqualToAnyOfClauseUsesTermsForOtherFields(t *testing.T) {
	clause := equalToAnyOfClause("seasonId", []any{"s1"})
	assert.Equal(t, filter.Clause{"terms": filter.Clause{"seasonId": []any{"s1"}}}, clause)
}

func TestDocumentKeyValuesScalar(t *testing.T) {
	values := documentKeyValues(map[string]any{"seasonId": "s1"}, "seasonId")
	assert.Equal(t, []string{"s1"}, values)
}

func TestDocumentKeyValuesList(t *testing.T) {
	values := documentKeyValues(map[string]any{"awardIds": []any{"a1", "a2"}}, "awardIds")
	assert.Equal(t, []string{"a1", "a2"}, values)
}

func TestDocumentKeyValuesAbsent(t *testing.T) {
	values := documentKeyValues(map[string]any{}, "seasonId")
	assert.Nil(t, values)
}
