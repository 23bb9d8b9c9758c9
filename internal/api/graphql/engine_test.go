package graphql

import (
	"context"
	"testing"

	gographql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineTestResolver struct{}

func (engineTestResolver) Hello() string { return "world" }

const engineTestSchema = `
	schema { query: Query }
	type Query { hello: String! }
`

func TestGraphQLGoEngineExecutesQuery(t *testing.T) {
	schema := gographql.MustParseSchema(engineTestSchema, &engineTestResolver{})
	engine := NewGraphQLGoEngine(schema)

	result := engine.Execute(context.Background(), `{ hello }`, "", nil)

	require.Empty(t, result.Errors)
	assert.JSONEq(t, `{"hello":"world"}`, string(result.Data))
}
