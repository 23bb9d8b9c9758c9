package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

func buildTestDefinition() *Definition {
	widget := &Type{name: "Widget", kind: KindObject, indices: []*IndexDefinition{{Name: "widgets", Queryable: true}}}
	component := &Type{name: "Component", kind: KindObject, indices: []*IndexDefinition{{Name: "components", Queryable: true}}}
	return NewDefinition(DefaultElementNames(), map[string]*Type{
		"Widget":    widget,
		"Component": component,
	})
}

func TestLookupFound(t *testing.T) {
	def := buildTestDefinition()
	typ, err := def.Lookup("Widget")
	require.NoError(t, err)
	assert.Equal(t, "Widget", typ.Name())
}

func TestLookupNotFoundSuggestsCloseNames(t *testing.T) {
	def := buildTestDefinition()
	_, err := def.Lookup("Widgit")
	require.Error(t, err)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))
	assert.Contains(t, err.Error(), "Widget")
}

func TestLookupNotFoundNoSuggestionWhenFar(t *testing.T) {
	def := buildTestDefinition()
	_, err := def.Lookup("ZzzzzzCompletelyUnrelated")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestSuggestionsMemoized(t *testing.T) {
	def := buildTestDefinition()
	_, _ = def.Lookup("Widgit")
	first := def.suggest["Widgit"]
	_, _ = def.Lookup("Widgit")
	second := def.suggest["Widgit"]
	assert.Equal(t, first, second)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("same", "same"))
	assert.Equal(t, 1, levenshtein("Widget", "Widgit"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
}
