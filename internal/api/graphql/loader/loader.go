// Package loader batches per-document relation lookups raised by
// independent GraphQL field resolvers within one request tick into a
// single multi-search round trip, via graph-gophers/dataloader.
package loader

import (
	"context"
	"fmt"

	"github.com/graph-gophers/dataloader"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

// DataBatch is the result of one BatchFunc invocation, keyed by the id
// each element was requested under.
type DataBatch map[string]any

// BatchFunc resolves a batch of ids to their corresponding values in a
// single call, the shape every registered loader must implement.
type BatchFunc func(ctx context.Context, ids []string) (DataBatch, error)

type key string

// Collection holds a named set of batch functions, each wrapped as a
// dataloader.Loader and attached to a request's context once per request.
type Collection struct {
	batchFunctions map[string]dataloader.BatchFunc
}

// NewCollection returns an empty loader collection.
func NewCollection() *Collection {
	return &Collection{batchFunctions: map[string]dataloader.BatchFunc{}}
}

// Register adds a named batch function to the collection.
func (c *Collection) Register(name string, callback BatchFunc) {
	c.batchFunctions[name] = newBatchedLoader(callback)
}

// Attach creates a fresh dataloader.Loader instance per registered batch
// function and attaches all of them to ctx, so that a resolver racing
// against sibling resolvers within the same request shares one batch
// window per relation.
func (c *Collection) Attach(ctx context.Context, opts ...dataloader.Option) context.Context {
	for name, batchFn := range c.batchFunctions {
		ctx = context.WithValue(ctx, key(name), dataloader.NewBatchedLoader(batchFn, opts...))
	}
	return ctx
}

func newBatchedLoader(batchFunc BatchFunc) dataloader.BatchFunc {
	return (&batchAdapter{batchFunc: batchFunc}).loadBatch
}

type batchAdapter struct {
	batchFunc BatchFunc
}

func (a *batchAdapter) loadBatch(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
	ids := keysAsStrings(keys)
	results := make([]*dataloader.Result, len(ids))

	batch, err := a.batchFunc(ctx, ids)
	if err != nil {
		return failAll(results, err)
	}

	for i, id := range ids {
		results[i] = &dataloader.Result{}
		if data, found := batch[id]; found {
			results[i].Data = data
		} else {
			results[i].Error = errors.New("no related documents found for id %s", id, errors.WithErrorCode(errors.ENotFound))
		}
	}

	return results
}

func (k key) String() string {
	return fmt.Sprintf("elasticgraph-relation-loader:%s", string(k))
}

// Extract retrieves the named loader from a context built by Attach.
func Extract(ctx context.Context, name string) (*dataloader.Loader, error) {
	ldr, ok := ctx.Value(key(name)).(*dataloader.Loader)
	if !ok {
		return nil, errors.New("no %q loader attached to this request's context", name, errors.WithErrorCode(errors.EInternal))
	}
	return ldr, nil
}

func keysAsStrings(keys dataloader.Keys) []string {
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = k.String()
	}
	return values
}

func failAll(results []*dataloader.Result, err error) []*dataloader.Result {
	for i := range results {
		results[i] = &dataloader.Result{Error: err}
	}
	return results
}
