// Package relation extracts join keys from a parent document and
// normalizes the documents a relation join fetches back against the
// cardinality the GraphQL field promises, the glue between a resolved
// parent document and the batched follow-up query that fills in one of
// its relation fields.
package relation

import (
	"sort"

	"github.com/elasticgraph/elasticgraph-go/internal/schema"
	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

// Cardinality is how many values a relation join's id side or document
// side is expected to carry.
type Cardinality string

// Cardinality constants.
const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
)

// Join describes one relation field's resolution as a query-by-id
// operation: which field on the related document to match against, which
// field on the parent document supplies the id(s), and the cardinality of
// each side.
type Join struct {
	DocumentIDFieldName   string
	FilterIDFieldName     string
	IDCardinality         Cardinality
	DocCardinality        Cardinality
	AdditionalFilter      any
	ForeignKeyNestedPaths []string
}

// NewJoin builds a Join from a field's relation metadata. Outbound
// relations match the parent's foreign key against the related document's
// id; inbound relations match the parent's own id against the related
// document's self-referential foreign key, with the id side always
// cardinality one (a document has exactly one id).
func NewJoin(rel *schema.Relation) *Join {
	docCardinality := CardinalityOne
	if rel.Many {
		docCardinality = CardinalityMany
	}

	if rel.IsInbound() {
		return &Join{
			DocumentIDFieldName: rel.SelfReferentialForeignKey,
			FilterIDFieldName:   "id",
			IDCardinality:       CardinalityOne,
			DocCardinality:      docCardinality,
			AdditionalFilter:    rel.AdditionalFilter,
		}
	}

	idCardinality := CardinalityOne
	if rel.Many {
		idCardinality = CardinalityMany
	}
	return &Join{
		DocumentIDFieldName:   "id",
		FilterIDFieldName:     rel.ForeignKey,
		IDCardinality:         idCardinality,
		DocCardinality:        docCardinality,
		AdditionalFilter:      rel.AdditionalFilter,
		ForeignKeyNestedPaths: rel.ForeignKeyNestedPaths,
	}
}

// ExtractIDOrIDsFrom reads the join key out of document (a decoded
// _source, keyed by index field name) and normalizes it to j's
// IDCardinality, warning via warn when the stored shape disagrees with
// what the relation expects (a scalar where a list was expected, or vice
// versa).
func (j *Join) ExtractIDOrIDsFrom(document map[string]any, warn func(msg string, document map[string]any)) []string {
	raw := readNestedValue(document, j.ForeignKeyNestedPaths, j.FilterIDFieldName)
	if raw == nil {
		return nil
	}

	switch v := raw.(type) {
	case []any:
		if j.IDCardinality == CardinalityOne && warn != nil {
			warn("relation join expected a single id but found a list", document)
		}
		ids := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				ids = append(ids, s)
			}
		}
		return ids
	case string:
		if j.IDCardinality == CardinalityMany && warn != nil {
			warn("relation join expected a list of ids but found a single value", document)
		}
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// NormalizeDocuments trims fetched (the related documents returned for one
// parent's join key) down to j.DocCardinality, logging a warning and
// picking a deterministic minimum (by id) when a to-one relation's filter
// unexpectedly matched more than one document.
func (j *Join) NormalizeDocuments(fetched []map[string]any, log logger.Logger) []map[string]any {
	if j.DocCardinality == CardinalityMany || len(fetched) <= 1 {
		return fetched
	}

	if len(fetched) > 1 && log != nil {
		log.Warnw("relation join expected at most one related document but found more",
			"document_id_field_name", j.DocumentIDFieldName,
			"match_count", len(fetched),
		)
	}

	sorted := make([]map[string]any, len(fetched))
	copy(sorted, fetched)
	sort.Slice(sorted, func(i, k int) bool {
		return documentID(sorted[i]) < documentID(sorted[k])
	})
	return sorted[:1]
}

func documentID(doc map[string]any) string {
	if id, ok := doc["id"].(string); ok {
		return id
	}
	return ""
}

// readNestedValue navigates path inside document (each segment a nested
// object field) before reading leaf from the resulting object.
func readNestedValue(document map[string]any, path []string, leaf string) any {
	current := document
	for _, segment := range path {
		next, ok := current[segment].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current[leaf]
}
