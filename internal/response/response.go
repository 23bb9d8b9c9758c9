// Package response wraps a single datastore search response, the per-query
// result the search router (G) hands back to a resolver after (F)'s query
// has executed.
package response

import (
	"encoding/json"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

// Hit is one matched document.
type Hit struct {
	ID     string
	Source json.RawMessage
	Sort   []any
}

// wireResponse mirrors the subset of the datastore's search response shape
// this package understands.
type wireResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
			Sort   []any           `json:"sort"`
		} `json:"hits"`
		Total *struct {
			Value    int64  `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

// SearchResponse is the parsed form of one datastore search response.
type SearchResponse struct {
	hits           []Hit
	totalValue     int64
	totalRelation  string
	hasTotal       bool
	aggregations   map[string]json.RawMessage
	trackTotalHits bool
}

// Empty is the canonical empty response: no hits, a total of zero. It is
// used for queries (F) marked empty and as the "blank" relation-join value
// when a parent document has no foreign key to follow.
var Empty = SearchResponse{totalValue: 0, hasTotal: true, trackTotalHits: true, totalRelation: "eq"}

// Parse decodes raw as a single datastore search response. trackTotalHits
// must reflect whether the originating query requested track_total_hits,
// since TotalDocumentCount's availability depends on it rather than on
// whether the datastore happened to include a total in the response.
func Parse(raw []byte, trackTotalHits bool) (*SearchResponse, error) {
	var wire wireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.Wrap(err, "failed to decode search response", errors.WithErrorCode(errors.ESearchFailed))
	}

	resp := &SearchResponse{
		aggregations:   wire.Aggregations,
		trackTotalHits: trackTotalHits,
	}
	if wire.Hits.Total != nil {
		resp.hasTotal = true
		resp.totalValue = wire.Hits.Total.Value
		resp.totalRelation = wire.Hits.Total.Relation
	}

	resp.hits = make([]Hit, len(wire.Hits.Hits))
	for i, h := range wire.Hits.Hits {
		resp.hits[i] = Hit{ID: h.ID, Source: h.Source, Sort: h.Sort}
	}

	return resp, nil
}

// Hits returns the matched documents in datastore order.
func (r *SearchResponse) Hits() []Hit {
	return r.hits
}

// Size returns the number of hits in this response.
func (r *SearchResponse) Size() int {
	return len(r.hits)
}

// IsEmpty reports whether this response has no hits.
func (r *SearchResponse) IsEmpty() bool {
	return len(r.hits) == 0
}

// TotalDocumentCount returns the datastore-reported total match count. It
// returns a CountUnavailable error when the originating query did not
// request track_total_hits, since the datastore's total in that case is
// either absent or capped and must not be trusted.
func (r *SearchResponse) TotalDocumentCount() (int64, error) {
	if !r.trackTotalHits {
		return 0, errors.New("total document count was not requested for this query", errors.WithErrorCode(errors.ECountUnavailable))
	}
	if !r.hasTotal {
		return 0, errors.New("datastore response carried no total", errors.WithErrorCode(errors.ECountUnavailable))
	}
	return r.totalValue, nil
}

// Aggregations returns the raw per-name aggregation results, or nil when
// the query requested none.
func (r *SearchResponse) Aggregations() map[string]json.RawMessage {
	return r.aggregations
}

// MetadataView returns a representation of this response suitable for
// structured logging: everything except hits.hits and aggregations, whose
// bulk would otherwise duplicate a request's document payload in the logs.
func (r *SearchResponse) MetadataView() map[string]any {
	view := map[string]any{
		"hit_count": len(r.hits),
	}
	if r.hasTotal {
		view["total_value"] = r.totalValue
		view["total_relation"] = r.totalRelation
	}
	if len(r.aggregations) > 0 {
		names := make([]string, 0, len(r.aggregations))
		for name := range r.aggregations {
			names = append(names, name)
		}
		view["aggregation_names"] = names
	}
	return view
}
