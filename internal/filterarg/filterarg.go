// Package filterarg translates a raw GraphQL filter argument value tree
// (as decoded from request variables) into an index-field-keyed tree the
// filter compiler can consume directly, resolving enum leaves to their
// runtime EnumValue along the way.
package filterarg

import (
	"github.com/elasticgraph/elasticgraph-go/internal/schema"
	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

// Translate walks raw (as produced by decoding a GraphQL filter argument)
// against parentFilterType, renaming each hash key to its field's
// name_in_index and resolving enum-typed leaves to *schema.EnumValue.
//
// Maps are renamed key-by-key and recursed into with the matching field's
// unwrapped type as the new parent. Slices are mapped element-wise against
// the same parent type (a filter operator's list of sub-values, e.g.
// equal_to_any_of, shares the parent's type). Anything else is a leaf: if
// parentType is an enum, the raw string is resolved to its EnumValue;
// otherwise it is returned unchanged.
func Translate(raw any, parentType *schema.Type) (any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return translateMap(v, parentType)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			translated, err := Translate(elem, parentType)
			if err != nil {
				return nil, err
			}
			out[i] = translated
		}
		return out, nil
	default:
		return translateLeaf(v, parentType)
	}
}

func translateMap(raw map[string]any, parentType *schema.Type) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		field, err := parentType.Field(key)
		if err != nil {
			return nil, errors.Wrap(err, "filter argument references unknown field %q on %s", key, parentType.Name())
		}

		translated, err := Translate(value, field.Type().FullyUnwrapped())
		if err != nil {
			return nil, err
		}
		out[field.NameInIndex()] = translated
	}
	return out, nil
}

func translateLeaf(raw any, parentType *schema.Type) (any, error) {
	if parentType == nil || parentType.Kind() != schema.KindEnum {
		return raw, nil
	}

	name, ok := raw.(string)
	if !ok {
		// null, numeric, or boolean leaves under an enum-typed parent pass
		// through unchanged; only string leaves name an enum member.
		return raw, nil
	}

	value, err := parentType.EnumValue(name)
	if err != nil {
		return nil, err
	}
	return value, nil
}
