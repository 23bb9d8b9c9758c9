package schema

import (
	"sort"
	"sync"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

// Definition is the immutable, fully-resolved schema registry: every named
// type, keyed by name, built once at boot. The only mutable state it holds
// is a memoization cache for "did you mean" suggestions on NotFound lookups.
type Definition struct {
	names        ElementNames
	types        map[string]*Type
	sortedNames  []string

	suggestMu sync.Mutex
	suggest   map[string][]string
}

// NewDefinition builds a Definition from a fully-constructed set of types
// and points each given Type's def field back at the returned Definition.
// Builder.Build (see builder.go) calls it with the types it declared.
func NewDefinition(names ElementNames, types map[string]*Type) *Definition {
	d := &Definition{
		names: names,
		types: types,
	}
	for name, t := range types {
		t.def = d
		d.sortedNames = append(d.sortedNames, name)
	}
	sort.Strings(d.sortedNames)
	return d
}

// ElementNames returns the schema's configured element-name spellings.
func (d *Definition) ElementNames() ElementNames {
	return d.names
}

// Lookup resolves a type by name, returning a NotFound error (pkg/errors
// code ENotFound) carrying edit-distance suggestions when it's missing.
func (d *Definition) Lookup(name string) (*Type, error) {
	if t, ok := d.types[name]; ok {
		return t, nil
	}
	return nil, d.notFoundError("type", name, d.sortedNames)
}

// notFoundError builds a NotFound error for a missing type or field name,
// appending up to three suggestions within an edit distance of 3.
func (d *Definition) notFoundError(kind, name string, candidates []string) error {
	suggestions := d.suggestionsFor(name, candidates)

	msg := kind + " \"" + name + "\" not found"
	if len(suggestions) > 0 {
		msg += "; did you mean "
		for i, s := range suggestions {
			if i > 0 {
				msg += ", "
			}
			msg += "\"" + s + "\""
		}
		msg += "?"
	}

	return errors.New(msg, errors.WithErrorCode(errors.ENotFound))
}

// suggestionsFor returns up to three candidates closest to name by edit
// distance (capped at 3), memoized per name so repeated
// lookups of a common typo don't repeatedly recompute every distance.
func (d *Definition) suggestionsFor(name string, candidates []string) []string {
	d.suggestMu.Lock()
	defer d.suggestMu.Unlock()

	if d.suggest == nil {
		d.suggest = make(map[string][]string)
	}
	if cached, ok := d.suggest[name]; ok {
		return cached
	}

	const maxDistance = 3
	const maxSuggestions = 3

	type scored struct {
		name     string
		distance int
	}
	var scoredCandidates []scored
	for _, c := range candidates {
		if c == name {
			continue
		}
		dist := levenshtein(name, c)
		if dist <= maxDistance {
			scoredCandidates = append(scoredCandidates, scored{c, dist})
		}
	}
	sort.Slice(scoredCandidates, func(i, j int) bool {
		if scoredCandidates[i].distance != scoredCandidates[j].distance {
			return scoredCandidates[i].distance < scoredCandidates[j].distance
		}
		return scoredCandidates[i].name < scoredCandidates[j].name
	})

	var out []string
	for i := 0; i < len(scoredCandidates) && i < maxSuggestions; i++ {
		out = append(out, scoredCandidates[i].name)
	}

	d.suggest[name] = out
	return out
}

// levenshtein computes the classic edit distance between a and b.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			cur[j] = min
		}
		prev, cur = cur, prev
	}

	return prev[len(rb)]
}
