package graphql

import (
	"context"

	gographql "github.com/graph-gophers/graphql-go"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

// GraphQLGoEngine adapts a *gographql.Schema (built and resolver-wired by
// the host application) to the Engine interface this package's Executor
// depends on. Building the schema itself — SDL generation and per-type
// resolvers — is the host's responsibility (out of this module's scope);
// this adapter only owns translating between the executor's plain
// request/response shape and graph-gophers/graphql-go's.
type GraphQLGoEngine struct {
	Schema *gographql.Schema
}

// NewGraphQLGoEngine returns an Engine backed by schema.
func NewGraphQLGoEngine(schema *gographql.Schema) *GraphQLGoEngine {
	return &GraphQLGoEngine{Schema: schema}
}

// Execute implements Engine.
func (e *GraphQLGoEngine) Execute(ctx context.Context, query string, operationName string, variables map[string]any) EngineResult {
	resp := e.Schema.Exec(ctx, query, operationName, variables)

	var errs []error
	for _, qerr := range resp.Errors {
		errs = append(errs, errors.Wrap(qerr, qerr.Message, errors.WithErrorCode(errors.EInternal)))
	}

	return EngineResult{Data: resp.Data, Errors: errs}
}
