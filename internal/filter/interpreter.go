package filter

import (
	"fmt"
	"sort"

	"github.com/elasticgraph/elasticgraph-go/internal/fieldpath"
	"github.com/elasticgraph/elasticgraph-go/internal/schema"
	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

// Compile translates a filter node (as already renamed/enum-resolved by
// internal/filterarg) rooted at filterType into a Query.
func Compile(names schema.ElementNames, filterType *schema.Type, node map[string]any) (*Query, error) {
	return compileMap(names, fieldpath.Root, filterType, schema.ListIndexingNone, node)
}

func isEmptyNode(v any) bool {
	if v == nil {
		return true
	}
	if m, ok := v.(map[string]any); ok {
		return len(m) == 0
	}
	return false
}

// compileMap classifies and compiles every key of node against filterType,
// merging the resulting clauses into a single Query. listIndexing carries
// forward whether the field that led here was a list field, and if so how
// it's indexed; it's consumed by an any_satisfy key at this exact level and
// irrelevant otherwise.
func compileMap(names schema.ElementNames, path fieldpath.Path, filterType *schema.Type, listIndexing schema.ListIndexing, node map[string]any) (*Query, error) {
	result := NewQuery()

	// Deterministic iteration order keeps compiled query shape stable,
	// which matters for tests and for log/debug readability.
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node[key]

		switch {
		case key == names.Not:
			inner, err := compileNotArgument(names, path, filterType, value)
			if err != nil {
				return nil, err
			}
			result.Merge(inner.Invert())
			continue

		case isEmptyNode(value):
			continue

		case key == names.AnySatisfy:
			clause, err := compileAnySatisfy(names, path, filterType, listIndexing, value)
			if err != nil {
				return nil, err
			}
			result.Add(OccurFilter, clause)

		case key == names.AllOf:
			clause, err := compileAllOf(names, path, filterType, value)
			if err != nil {
				return nil, err
			}
			if clause != nil {
				result.Add(OccurFilter, clause)
			}

		case key == names.AnyOf:
			clause, err := compileAnyOf(names, path, filterType, value)
			if err != nil {
				return nil, err
			}
			result.Add(OccurFilter, clause)

		case isOperatorKey(names, key):
			clause, err := compileOperator(names, path.FromParent(), key, value)
			if err != nil {
				return nil, err
			}
			if clause != nil {
				result.Add(OccurFilter, clause)
			}

		case key == names.Count:
			clauses, err := compileCounts(names, path, filterType, value)
			if err != nil {
				return nil, err
			}
			result.Add(OccurFilter, clauses...)

		default:
			clause, err := compileSubField(names, path, filterType, key, value)
			if err != nil {
				return nil, err
			}
			if clause != nil {
				result.Add(OccurFilter, clause)
			}
		}
	}

	return result, nil
}

func compileNotArgument(names schema.ElementNames, path fieldpath.Path, filterType *schema.Type, value any) (*Query, error) {
	if isEmptyNode(value) {
		return NewQuery(), nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("not argument must be an object", errors.WithErrorCode(errors.EInvalid))
	}
	return compileMap(names, path, filterType, schema.ListIndexingNone, m)
}

func compileAllOf(names schema.ElementNames, path fieldpath.Path, filterType *schema.Type, value any) (Clause, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, errors.New("all_of argument must be a list", errors.WithErrorCode(errors.EInvalid))
	}
	if len(items) == 0 {
		// all_of: [] is identity (match everything); no clause needed.
		return nil, nil
	}

	result := NewQuery()
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			if isEmptyNode(item) {
				continue
			}
			return nil, errors.New("all_of elements must be objects", errors.WithErrorCode(errors.EInvalid))
		}
		sub, err := compileMap(names, path, filterType, schema.ListIndexingNone, m)
		if err != nil {
			return nil, err
		}
		result.Merge(sub)
	}
	return result.ToClause(), nil
}

func compileAnyOf(names schema.ElementNames, path fieldpath.Path, filterType *schema.Type, value any) (Clause, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, errors.New("any_of argument must be a list", errors.WithErrorCode(errors.EInvalid))
	}
	if len(items) == 0 {
		return MatchNone(), nil
	}

	should := NewQuery()
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			if isEmptyNode(item) {
				should.Add(OccurShould, MatchAll())
				continue
			}
			return nil, errors.New("any_of elements must be objects", errors.WithErrorCode(errors.EInvalid))
		}
		sub, err := compileMap(names, path, filterType, schema.ListIndexingNone, m)
		if err != nil {
			return nil, err
		}
		should.Add(OccurShould, sub.ToClause())
	}
	should.SetMinimumShouldMatch(1)
	return should.ToClause(), nil
}

func compileAnySatisfy(names schema.ElementNames, path fieldpath.Path, filterType *schema.Type, listIndexing schema.ListIndexing, value any) (Clause, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("any_satisfy argument must be an object", errors.WithErrorCode(errors.EInvalid))
	}

	field, err := filterType.FieldByIndexName(names.AnySatisfy)
	if err != nil {
		return nil, err
	}
	elementType := field.Type().FullyUnwrapped()

	if listIndexing == schema.ListIndexingNested {
		nestedPath := path.Nested()
		sub, err := compileMap(names, nestedPath, elementType, schema.ListIndexingNone, m)
		if err != nil {
			return nil, err
		}
		return Clause{"nested": Clause{
			"path":  path.FromRoot(),
			"query": sub.ToClause(),
		}}, nil
	}

	sub, err := compileMap(names, path, elementType, schema.ListIndexingNone, m)
	if err != nil {
		return nil, err
	}
	return sub.ToClause(), nil
}

func compileSubField(names schema.ElementNames, path fieldpath.Path, filterType *schema.Type, key string, value any) (Clause, error) {
	field, err := filterType.FieldByIndexName(key)
	if err != nil {
		return nil, err
	}

	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("filter field %q must be an object", key, errors.WithErrorCode(errors.EInvalid))
	}

	childType := field.Type().FullyUnwrapped()
	sub, err := compileMap(names, path.Plus(key), childType, field.ListIndexing(), m)
	if err != nil {
		return nil, err
	}
	return sub.ToClause(), nil
}

func compileCounts(names schema.ElementNames, path fieldpath.Path, filterType *schema.Type, value any) ([]Clause, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("count argument must be an object", errors.WithErrorCode(errors.EInvalid))
	}

	countsPath := path.CountsPath()

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var clauses []Clause
	for _, k := range keys {
		if isEmptyNode(m[k]) {
			continue
		}
		clause, err := compileOperator(names, countsPath, k, m[k])
		if err != nil {
			return nil, err
		}
		if clause != nil {
			clauses = append(clauses, clause)
		}
	}
	return clauses, nil
}

func isOperatorKey(names schema.ElementNames, key string) bool {
	switch key {
	case names.EqualToAnyOf, names.GT, names.GTE, names.LT, names.LTE,
		names.Matches, names.MatchesQuery, names.MatchesPhrase, names.Near, names.TimeOfDay:
		return true
	default:
		return false
	}
}

func rangeOperatorLiteral(names schema.ElementNames, key string) string {
	switch key {
	case names.GT:
		return "gt"
	case names.GTE:
		return "gte"
	case names.LT:
		return "lt"
	case names.LTE:
		return "lte"
	default:
		return key
	}
}

// compileOperator dispatches a single operator key/value pair to its
// datastore clause.
func compileOperator(names schema.ElementNames, fieldRef string, key string, value any) (Clause, error) {
	switch key {
	case names.EqualToAnyOf:
		return compileEqualToAnyOf(fieldRef, value)
	case names.GT, names.GTE, names.LT, names.LTE:
		return RangeQuery{Field: fieldRef, Operator: rangeOperatorLiteral(names, key), Value: unwrapEnum(value)}.ToClause(), nil
	case names.Matches:
		return Clause{"match": Clause{fieldRef: unwrapEnum(value)}}, nil
	case names.MatchesQuery:
		return compileMatchesQuery(names, fieldRef, value)
	case names.MatchesPhrase:
		return compileMatchesPhrase(names, fieldRef, value)
	case names.Near:
		return compileNear(names, fieldRef, value)
	case names.TimeOfDay:
		return compileTimeOfDay(names, fieldRef, value)
	default:
		return nil, errors.New("unrecognized filter operator %q", key, errors.WithErrorCode(errors.EInvalid))
	}
}

func unwrapEnum(v any) any {
	if ev, ok := v.(*schema.EnumValue); ok {
		return ev.DatastoreValue()
	}
	return v
}

func compileEqualToAnyOf(fieldRef string, value any) (Clause, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, errors.New("equal_to_any_of argument must be a list", errors.WithErrorCode(errors.EInvalid))
	}

	var nonNull []any
	hasNull := false
	for _, item := range items {
		if item == nil {
			hasNull = true
			continue
		}
		v := unwrapEnum(item)
		if s, ok := v.(string); ok && s == "" && fieldRef == "id" {
			// empty strings are excluded from id equality to appease the
			// datastore's ids query, which rejects blank values.
			continue
		}
		nonNull = append(nonNull, v)
	}

	termsClause := func(values []any) Clause {
		if fieldRef == "id" {
			return Clause{"ids": Clause{"values": values}}
		}
		return Clause{"terms": Clause{fieldRef: values}}
	}

	existsClause := Clause{"exists": Clause{"field": fieldRef}}

	switch {
	case len(nonNull) == 0 && hasNull:
		return Clause{"bool": Clause{"must_not": []Clause{existsClause}}}, nil
	case hasNull:
		nonNullBranch := Clause{"bool": Clause{"filter": []Clause{termsClause(nonNull)}}}
		nullBranch := Clause{"bool": Clause{"must_not": []Clause{
			Clause{"bool": Clause{"filter": []Clause{existsClause}}},
		}}}
		return Clause{"bool": Clause{
			"minimum_should_match": 1,
			"should":               []Clause{nonNullBranch, nullBranch},
		}}, nil
	default:
		return termsClause(nonNull), nil
	}
}

func compileMatchesQuery(names schema.ElementNames, fieldRef string, value any) (Clause, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("matches_query argument must be an object", errors.WithErrorCode(errors.EInvalid))
	}

	body := Clause{"query": m[names.Query]}

	if edits, ok := m[names.AllowedEditsPerTerm]; ok && edits != nil {
		body["fuzziness"] = unwrapEnum(edits)
	}

	operator := "OR"
	if requireAll, ok := m[names.RequireAllTerms].(bool); ok && requireAll {
		operator = "AND"
	}
	body["operator"] = operator

	return Clause{"match": Clause{fieldRef: body}}, nil
}

func compileMatchesPhrase(names schema.ElementNames, fieldRef string, value any) (Clause, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("matches_phrase argument must be an object", errors.WithErrorCode(errors.EInvalid))
	}
	return Clause{"match_phrase_prefix": Clause{fieldRef: Clause{"query": m[names.Phrase]}}}, nil
}

func compileNear(names schema.ElementNames, fieldRef string, value any) (Clause, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("near argument must be an object", errors.WithErrorCode(errors.EInvalid))
	}

	unitAbbrev := ""
	if ev, ok := m[names.Unit].(*schema.EnumValue); ok {
		unitAbbrev = ev.DatastoreValue()
	}

	distance := fmt.Sprintf("%v%s", m[names.MaxDistance], unitAbbrev)

	return Clause{"geo_distance": Clause{
		"distance": distance,
		fieldRef: Clause{
			"lat": m[names.Latitude],
			"lon": m[names.Longitude],
		},
	}}, nil
}

func compileTimeOfDay(names schema.ElementNames, fieldRef string, value any) (Clause, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("time_of_day argument must be an object", errors.WithErrorCode(errors.EInvalid))
	}

	params := Clause{"field": fieldRef}
	sawComparison := false

	if eq, ok := m[names.EqualToAnyOf]; ok && eq != nil {
		list, _ := eq.([]any)
		nanos := make([]int64, 0, len(list))
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				continue
			}
			n, err := parseNanoOfDay(s)
			if err != nil {
				return nil, err
			}
			nanos = append(nanos, n)
		}
		if len(nanos) > 0 {
			params[names.EqualToAnyOf] = nanos
			sawComparison = true
		}
	}

	for _, key := range []string{names.GT, names.GTE, names.LT, names.LTE} {
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			continue
		}
		n, err := parseNanoOfDay(s)
		if err != nil {
			return nil, err
		}
		params[key] = n
		sawComparison = true
	}

	if !sawComparison {
		// No comparison parameters were set: nothing to filter on.
		return nil, nil
	}

	if tz, ok := m[names.TimeZone]; ok && tz != nil {
		params[names.TimeZone] = tz
	}

	return Clause{"script": Clause{
		"id":     timeOfDayScriptID,
		"params": params,
	}}, nil
}
