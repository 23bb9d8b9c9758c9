package cursor

import (
	"fmt"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

// Factory builds cursors for a fixed, ordered list of sort fields, the way
// a resolver for a particular connection field knows its own sort order.
type Factory struct {
	fields []string
}

// NewFactory returns a Factory parameterized by an ordered list of sort
// field names. Duplicate field names are rejected (spec §8 property 4),
// since a cursor could never disambiguate which value belongs to which
// occurrence of the field.
func NewFactory(fields []string) (*Factory, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			return nil, errors.New("duplicate sort field %q in cursor factory", f, errors.WithErrorCode(errors.EInvalidSortFields))
		}
		seen[f] = struct{}{}
	}

	return &Factory{fields: fields}, nil
}

// Build zips values against the factory's sort fields in order, returning
// an error with code errors.ECursorEncoding if the cardinalities don't
// match (spec invariant:
// "the value count and sort-field count for a cursor must match").
func (f *Factory) Build(values []any) (DecodedCursor, error) {
	if len(values) != len(f.fields) {
		return DecodedCursor{}, errors.New(
			"cursor requires %d sort values but got %d", len(f.fields), len(values),
			errors.WithErrorCode(errors.ECursorEncoding),
		)
	}

	entries := make([]Entry, len(f.fields))
	for i, field := range f.fields {
		entries[i] = Entry{Field: field, Value: values[i]}
	}

	return DecodedCursor{SortValues: NewSortValues(entries...)}, nil
}

// NullFactory builds cursors when the sort-field schema isn't known
// statically: each value's string form becomes its own key, so ordering is
// preserved without requiring named fields up front.
type NullFactory struct{}

// Build zips values into a SortValues keyed by each value's string form.
func (NullFactory) Build(values []any) (DecodedCursor, error) {
	entries := make([]Entry, len(values))
	for i, v := range values {
		entries[i] = Entry{Field: fmt.Sprint(v), Value: v}
	}
	return DecodedCursor{SortValues: NewSortValues(entries...)}, nil
}
