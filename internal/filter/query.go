// Package filter compiles a translated GraphQL filter argument tree (as
// produced by internal/filterarg) into the datastore's boolean query DSL.
package filter

// Clause is one datastore query DSL clause, e.g. {"term": {"status": "ACTIVE"}}.
type Clause = map[string]any

// Occurrence is a boolean-query clause's role, mirroring Elasticsearch's
// bool query occurrence types.
type Occurrence string

// Occurrence constants.
const (
	OccurFilter  Occurrence = "filter"
	OccurMust    Occurrence = "must"
	OccurMustNot Occurrence = "must_not"
	OccurShould  Occurrence = "should"
)

// Query accumulates clauses by occurrence as a filter tree is compiled.
// Combining two Querys on the same occurrence concatenates their clauses;
// a Query with clauses in more than one occurrence renders as a single
// {"bool": {...}} clause.
type Query struct {
	clauses            map[Occurrence][]Clause
	minimumShouldMatch int
}

// NewQuery returns an empty Query (semantically "match everything").
func NewQuery() *Query {
	return &Query{clauses: make(map[Occurrence][]Clause)}
}

// IsEmpty reports whether q has no clauses at all (identity: match everything).
func (q *Query) IsEmpty() bool {
	if q == nil {
		return true
	}
	for _, cs := range q.clauses {
		if len(cs) > 0 {
			return false
		}
	}
	return true
}

// Add appends clauses under occ.
func (q *Query) Add(occ Occurrence, clauses ...Clause) {
	if len(clauses) == 0 {
		return
	}
	q.clauses[occ] = append(q.clauses[occ], clauses...)
}

// SetMinimumShouldMatch overrides the should clause's minimum_should_match
// (Elasticsearch defaults this to 1 whenever should clauses are the only
// occurrence present and there is no explicit override).
func (q *Query) SetMinimumShouldMatch(n int) {
	q.minimumShouldMatch = n
}

// Merge concatenates other's clauses into q, occurrence by occurrence.
func (q *Query) Merge(other *Query) {
	if other == nil {
		return
	}
	for occ, cs := range other.clauses {
		q.clauses[occ] = append(q.clauses[occ], cs...)
	}
	if other.minimumShouldMatch != 0 {
		q.minimumShouldMatch = other.minimumShouldMatch
	}
}

// Invert moves q's filter/must clauses under must_not (and vice versa for
// an existing must_not, which becomes filter), the compilation of a `not`
// filter node. should clauses are wrapped whole, since De Morgan's negation
// of an OR is an AND of negations, which doesn't flatten into a single
// occurrence swap.
func (q *Query) Invert() *Query {
	inverted := NewQuery()

	if q.IsEmpty() {
		// not({}) == not(match everything) == match nothing.
		inverted.Add(OccurMustNot, MatchAll())
		return inverted
	}

	positive := q.clauses[OccurFilter]
	positive = append(positive, q.clauses[OccurMust]...)
	if len(positive) > 0 {
		inner := NewQuery()
		inner.Add(OccurFilter, positive...)
		inverted.Add(OccurMustNot, inner.ToClause())
	}

	for _, c := range q.clauses[OccurMustNot] {
		inverted.Add(OccurFilter, c)
	}

	if should := q.clauses[OccurShould]; len(should) > 0 {
		inner := NewQuery()
		inner.Add(OccurShould, should...)
		if q.minimumShouldMatch != 0 {
			inner.SetMinimumShouldMatch(q.minimumShouldMatch)
		}
		inverted.Add(OccurMustNot, inner.ToClause())
	}

	return inverted
}

// ToClause renders q as a single datastore clause. An empty Query renders
// as match_all (the query DSL's identity value).
func (q *Query) ToClause() Clause {
	if q.IsEmpty() {
		return MatchAll()
	}

	boolBody := Clause{}
	for _, occ := range []Occurrence{OccurFilter, OccurMust, OccurMustNot, OccurShould} {
		if cs := q.clauses[occ]; len(cs) > 0 {
			boolBody[string(occ)] = cs
		}
	}
	if len(q.clauses[OccurShould]) > 0 {
		if q.minimumShouldMatch != 0 {
			boolBody["minimum_should_match"] = q.minimumShouldMatch
		} else {
			boolBody["minimum_should_match"] = 1
		}
	}

	return Clause{"bool": boolBody}
}

// MatchAll returns the datastore's universal "match everything" clause.
func MatchAll() Clause {
	return Clause{"match_all": Clause{}}
}

// MatchNone returns a clause that matches nothing, expressed the way the
// datastore query DSL has no literal "match nothing": a negated match_all.
func MatchNone() Clause {
	return Clause{"bool": Clause{"must_not": []Clause{MatchAll()}}}
}

// RangeQuery is a single-field range comparison.
type RangeQuery struct {
	Field    string
	Operator string // one of "gt", "gte", "lt", "lte"
	Value    any
}

// ToClause renders r as {"range": {field: {op: value}}}.
func (r RangeQuery) ToClause() Clause {
	return Clause{"range": Clause{r.Field: Clause{r.Operator: r.Value}}}
}
