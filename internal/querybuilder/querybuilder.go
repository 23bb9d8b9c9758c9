// Package querybuilder assembles a single logical datastore search request
// from a resolver's filter, sort, and pagination inputs, applying the page
// size defaults/caps and the deterministic tie-breaker sort every resolver
// needs in the same way.
package querybuilder

import (
	"time"

	"github.com/elasticgraph/elasticgraph-go/internal/cursor"
	"github.com/elasticgraph/elasticgraph-go/internal/filter"
	"github.com/elasticgraph/elasticgraph-go/internal/schema"
)

// tieBreakerField is appended to every sort list that doesn't already order
// by it, so cursor-based pagination always has a stable resume point.
const tieBreakerField = "id"

// Config holds the page-size defaults a Builder enforces on every query it
// builds.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// SortEntry is one component of a logical query's sort list.
type SortEntry struct {
	FieldPath string
	Direction schema.SortDirection
}

// Query is a single logical datastore search request: everything the
// search router (G) needs to serialize one multi-search body line.
type Query struct {
	ClusterName           string
	SearchIndexExpression string
	ShardRoutingValues    []string
	Filter                filter.Clause
	Sort                  []SortEntry
	Size                  int
	SearchAfter           []any
	Aggregations          map[string]any
	SourceIncludes        []string
	TrackTotalHits        bool
	Deadline              *time.Time

	empty bool
}

// IsEmpty reports whether the query requires no datastore round trip: it
// was built with no requested fields and no total-count requirement.
func (q *Query) IsEmpty() bool {
	return q.empty
}

// Options carries a single Build call's inputs.
type Options struct {
	ClusterName           string
	SearchIndexExpression string
	ShardRoutingValues    []string
	Filter                *filter.Query
	SortClauses           []schema.SortClause
	RequestedPageSize     *int
	After                 *cursor.DecodedCursor
	HasRequestedFields    bool
	TrackTotalHits        bool
	Aggregations          map[string]any
	SourceIncludes        []string
	Deadline              *time.Time
}

// Builder builds logical queries under a fixed page-size configuration.
type Builder struct {
	cfg Config
}

// NewBuilder returns a Builder enforcing cfg's page-size defaults and caps.
func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

// Build produces a logical Query from opts.
func (b *Builder) Build(opts Options) *Query {
	q := &Query{
		ClusterName:           opts.ClusterName,
		SearchIndexExpression: opts.SearchIndexExpression,
		ShardRoutingValues:    opts.ShardRoutingValues,
		Sort:                  sortEntriesWithTieBreaker(opts.SortClauses),
		Size:                  b.resolveSize(opts.RequestedPageSize),
		Aggregations:          opts.Aggregations,
		SourceIncludes:        opts.SourceIncludes,
		TrackTotalHits:        opts.TrackTotalHits,
		Deadline:              opts.Deadline,
		empty:                 !opts.HasRequestedFields && !opts.TrackTotalHits,
	}

	if opts.Filter != nil {
		q.Filter = opts.Filter.ToClause()
	} else {
		q.Filter = filter.MatchAll()
	}

	if opts.After != nil && !opts.After.IsSingleton() {
		q.SearchAfter = searchAfterValues(q.Sort, opts.After.SortValues)
	}

	return q
}

// resolveSize determines the page size from the requested value, falling
// back to the configured default and capping to the configured maximum.
func (b *Builder) resolveSize(requested *int) int {
	size := b.cfg.DefaultPageSize
	if requested != nil {
		size = *requested
	}
	if size > b.cfg.MaxPageSize {
		size = b.cfg.MaxPageSize
	}
	return size
}

// sortEntriesWithTieBreaker expands sortClauses into SortEntry values,
// appending an ascending id sort if one isn't already present.
func sortEntriesWithTieBreaker(sortClauses []schema.SortClause) []SortEntry {
	entries := make([]SortEntry, 0, len(sortClauses)+1)
	hasTieBreaker := false
	for _, c := range sortClauses {
		path := fieldPathString(c.FieldPath)
		if path == tieBreakerField {
			hasTieBreaker = true
		}
		entries = append(entries, SortEntry{FieldPath: path, Direction: c.Direction})
	}
	if !hasTieBreaker {
		entries = append(entries, SortEntry{FieldPath: tieBreakerField, Direction: schema.SortAscending})
	}
	return entries
}

// searchAfterValues builds a search_after value list from the cursor's
// sort values, in sort order, stopping at the first sort field the cursor
// has no value for (a field added to the sort after the cursor was issued).
func searchAfterValues(sort []SortEntry, values cursor.SortValues) []any {
	after := make([]any, 0, len(sort))
	for _, entry := range sort {
		v, ok := values.Get(entry.FieldPath)
		if !ok {
			break
		}
		after = append(after, v)
	}
	if len(after) == 0 {
		return nil
	}
	return after
}

func fieldPathString(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	out := segments[0]
	for _, s := range segments[1:] {
		out += "." + s
	}
	return out
}
