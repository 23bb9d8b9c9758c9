package loader

import (
	"context"
	"encoding/json"

	"github.com/elasticgraph/elasticgraph-go/internal/filter"
	"github.com/elasticgraph/elasticgraph-go/internal/querybuilder"
	"github.com/elasticgraph/elasticgraph-go/internal/relation"
	"github.com/elasticgraph/elasticgraph-go/internal/response"
	"github.com/elasticgraph/elasticgraph-go/internal/search"
	"github.com/elasticgraph/elasticgraph-go/internal/tracker"
	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

// RelationSource names the datastore location a relation join's related
// documents live in.
type RelationSource struct {
	ClusterName           string
	SearchIndexExpression string
}

// NewRelationBatchFunc returns a BatchFunc that fetches the related
// documents for a batch of join.FilterIDFieldName values — collected
// across sibling resolvers within one dataloader tick — in a single
// multi-search call, then groups and normalizes the results back to each
// requested id per join's cardinality.
func NewRelationBatchFunc(
	router *search.Router,
	builder *querybuilder.Builder,
	join *relation.Join,
	source RelationSource,
	tr *tracker.Tracker,
	log logger.Logger,
) BatchFunc {
	return func(ctx context.Context, ids []string) (DataBatch, error) {
		if len(ids) == 0 {
			return DataBatch{}, nil
		}

		matchValues := make([]any, len(ids))
		for i, id := range ids {
			matchValues[i] = id
		}

		filterQuery := filter.NewQuery()
		filterQuery.Add(filter.OccurFilter, equalToAnyOfClause(join.DocumentIDFieldName, matchValues))
		if additional, ok := join.AdditionalFilter.(filter.Clause); ok {
			filterQuery.Add(filter.OccurFilter, additional)
		}

		query := builder.Build(querybuilder.Options{
			ClusterName:           source.ClusterName,
			SearchIndexExpression: source.SearchIndexExpression,
			Filter:                filterQuery,
			HasRequestedFields:    true,
		})

		results, err := router.Execute(ctx, []*querybuilder.Query{query}, tr)
		if err != nil {
			return nil, err
		}

		searchResponse := results[query]
		if searchResponse == nil {
			searchResponse = &response.Empty
		}

		matched := make(map[string][]map[string]any, len(ids))
		for _, hit := range searchResponse.Hits() {
			var doc map[string]any
			if jsonErr := json.Unmarshal(hit.Source, &doc); jsonErr != nil {
				continue
			}
			if _, hasID := doc["id"]; !hasID {
				doc["id"] = hit.ID
			}
			for _, matchedID := range documentKeyValues(doc, join.DocumentIDFieldName) {
				matched[matchedID] = append(matched[matchedID], doc)
			}
		}

		batch := make(DataBatch, len(ids))
		for _, id := range ids {
			batch[id] = join.NormalizeDocuments(matched[id], log)
		}
		return batch, nil
	}
}

func equalToAnyOfClause(fieldName string, values []any) filter.Clause {
	if fieldName == "id" {
		return filter.Clause{"ids": filter.Clause{"values": values}}
	}
	return filter.Clause{"terms": filter.Clause{fieldName: values}}
}

// documentKeyValues reads fieldName off a fetched document, normalizing a
// scalar-or-list mismatch the same way relation.Join.ExtractIDOrIDsFrom
// does for the parent side, so a fetched document groups under every id
// it actually matches.
func documentKeyValues(document map[string]any, fieldName string) []string {
	switch v := document[fieldName].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				values = append(values, s)
			}
		}
		return values
	default:
		return nil
	}
}
