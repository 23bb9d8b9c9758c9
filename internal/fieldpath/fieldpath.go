// Package fieldpath tracks a filter/query compiler's current location in a
// document as it walks nested object and list fields.
//
// A Path carries two parallel views of "where we are": from_root, the full
// dotted path from the document root, and from_parent, the path since the
// last nested-document boundary. Both views are needed because a datastore
// "nested" query scopes its own field references relative to the nested
// path, while sort/aggregation references need the full root-relative path.
package fieldpath

import "strings"

// countsFieldPrefix is the hidden field every indexed document carries to
// record list cardinalities for list-count filters.
const countsFieldPrefix = "__counts"

// Path is immutable; every mutator returns a new Path rather than modifying
// the receiver.
type Path struct {
	fromRoot   []string
	fromParent []string
}

// Root is the empty path, the starting point for any field traversal.
var Root = Path{}

// Plus returns a new Path with segment appended to both from_root and
// from_parent.
func (p Path) Plus(segment string) Path {
	return Path{
		fromRoot:   appendCopy(p.fromRoot, segment),
		fromParent: appendCopy(p.fromParent, segment),
	}
}

// Nested returns a new Path that has entered a nested document: from_root is
// preserved, from_parent resets to empty since nested-document query scopes
// reference fields relative to the nested path, not the document root.
func (p Path) Nested() Path {
	return Path{
		fromRoot:   p.fromRoot,
		fromParent: nil,
	}
}

// FromRoot returns the full dotted path from the document root.
func (p Path) FromRoot() string {
	return strings.Join(p.fromRoot, ".")
}

// FromParent returns the dotted path since the last nested-document boundary.
func (p Path) FromParent() string {
	return strings.Join(p.fromParent, ".")
}

// FromRootSegments returns the from-root path segments. The returned slice
// must not be mutated.
func (p Path) FromRootSegments() []string {
	return p.fromRoot
}

// FromParentSegments returns the from-parent path segments. The returned
// slice must not be mutated.
func (p Path) FromParentSegments() []string {
	return p.fromParent
}

// CountsPath returns the path that addresses this location's list-count
// field: the hidden __counts prefix followed by the from-parent segments
// joined with "|" rather than ".", since "." would be ambiguous between
// object nesting and list nesting in the hidden counts document. Like any
// other field reference, this is relative to the nearest nested-document
// boundary (from_parent), not the document root, since a datastore "nested"
// query scopes every field reference inside it relative to that boundary.
func (p Path) CountsPath() string {
	if len(p.fromParent) == 0 {
		return countsFieldPrefix
	}
	return countsFieldPrefix + "." + strings.Join(p.fromParent, "|")
}

func appendCopy(segments []string, segment string) []string {
	out := make([]string, len(segments)+1)
	copy(out, segments)
	out[len(segments)] = segment
	return out
}
