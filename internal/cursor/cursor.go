// Package cursor implements ElasticGraph's round-trippable, sort-aware
// pagination cursors.
//
// Unlike an opaque offset token, a cursor is descriptive: it carries the
// boundary document's sort-field values by name, so a client can change
// sort direction, reorder sort components, or drop trailing components
// between page requests and the server can still resume. A sort field
// added to the schema after a cursor was issued simply has no value in
// older cursors; pagination resumes as though that field did not exist.
package cursor

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

// SingletonCursor is the fixed sentinel string encoding a one-element
// collection with no meaningful sort key.
const SingletonCursor = "SINGLETON_CURSOR"

// Entry is a single (field, value) pair of a decoded cursor, in the order
// it appeared on the wire.
type Entry struct {
	Field string
	Value any
}

// SortValues is an insertion-ordered mapping of sort-field name to value.
type SortValues struct {
	entries []Entry
}

// NewSortValues builds a SortValues from entries, preserving their order.
func NewSortValues(entries ...Entry) SortValues {
	return SortValues{entries: entries}
}

// Len returns the number of entries.
func (s SortValues) Len() int {
	return len(s.entries)
}

// Entries returns the ordered entries. The returned slice must not be mutated.
func (s SortValues) Entries() []Entry {
	return s.entries
}

// Get returns the value for field and whether it was present.
func (s SortValues) Get(field string) (any, bool) {
	for _, e := range s.entries {
		if e.Field == field {
			return e.Value, true
		}
	}
	return nil, false
}

// Equal reports whether s and other have identical entries in the same order.
func (s SortValues) Equal(other SortValues) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for i, e := range s.entries {
		o := other.entries[i]
		if e.Field != o.Field {
			return false
		}
		ej, err1 := json.Marshal(e.Value)
		oj, err2 := json.Marshal(o.Value)
		if err1 != nil || err2 != nil || !bytes.Equal(ej, oj) {
			return false
		}
	}
	return true
}

// DecodedCursor is the parsed form of a cursor token.
type DecodedCursor struct {
	SortValues  SortValues
	isSingleton bool
}

// Singleton is the distinguished cursor for single-element collections with
// no meaningful sort key.
var Singleton = DecodedCursor{isSingleton: true}

// IsSingleton reports whether this is the distinguished singleton cursor.
func (d DecodedCursor) IsSingleton() bool {
	return d.isSingleton
}

// Encode serializes sort values to deterministic, insertion-ordered JSON and
// applies URL-safe base64 without padding.
func Encode(values SortValues) (string, error) {
	raw, err := marshalOrdered(values)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode cursor", errors.WithErrorCode(errors.ECursorEncoding))
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Encode serializes d back to its wire form, returning the singleton
// sentinel for the distinguished singleton cursor.
func (d DecodedCursor) Encode() (string, error) {
	if d.isSingleton {
		return SingletonCursor, nil
	}
	return Encode(d.SortValues)
}

// Decode parses a cursor token, returning an error with code
// errors.EInvalidCursor on malformed base64 or JSON. The singleton sentinel decodes to Singleton.
func Decode(token string) (DecodedCursor, error) {
	if token == SingletonCursor {
		return Singleton, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return DecodedCursor{}, errors.New("malformed cursor encoding", errors.WithErrorCode(errors.EInvalidCursor))
	}

	values, err := unmarshalOrdered(raw)
	if err != nil {
		return DecodedCursor{}, errors.New("malformed cursor payload", errors.WithErrorCode(errors.EInvalidCursor))
	}

	return DecodedCursor{SortValues: values}, nil
}

// TryDecode is a total function: it returns nil instead of an error when the
// token cannot be decoded.
func TryDecode(token string) *DecodedCursor {
	decoded, err := Decode(token)
	if err != nil {
		return nil
	}
	return &decoded
}

// marshalOrdered writes values as a JSON object whose keys appear in
// insertion order, which encoding/json cannot guarantee for a Go map.
func marshalOrdered(values SortValues) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range values.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Field)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// unmarshalOrdered reads a JSON object token-by-token so that key order is
// preserved, rather than decoding into a Go map (which does not preserve it).
func unmarshalOrdered(raw []byte) (SortValues, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return SortValues{}, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return SortValues{}, fmt.Errorf("expected JSON object")
	}

	var entries []Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return SortValues{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return SortValues{}, fmt.Errorf("expected string key")
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return SortValues{}, err
		}

		entries = append(entries, Entry{Field: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return SortValues{}, err
	}

	return SortValues{entries: entries}, nil
}
