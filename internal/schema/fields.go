package schema

// Relation describes how a Field resolves by joining against another
// indexed document rather than reading an embedded value directly.
type Relation struct {
	// ForeignKey is the field on this document holding the related
	// document's id (outbound relation: "this document points at that one").
	ForeignKey string

	// SelfReferentialForeignKey is the field on the *related* document that
	// points back at this document's id (inbound relation: "that document
	// points at this one"). Empty for outbound relations.
	SelfReferentialForeignKey string

	// RelatedType is the name of the type on the other side of the join.
	RelatedType string

	// Many is true for a has-many / belongs-to-many relation (the resolved
	// value is a connection/list rather than a single document).
	Many bool

	// AdditionalFilter, when non-nil, is a pre-translated filter argument
	// node (the same shape internal/filterarg produces) that every join
	// through this relation must additionally satisfy, e.g. restricting a
	// has-many relation to non-retracted related documents.
	AdditionalFilter any

	// ForeignKeyNestedPaths locates the foreign key when it lives inside a
	// nested object or list on the document that carries it, rather than
	// at the document's top level; empty when the foreign key is a
	// top-level field.
	ForeignKeyNestedPaths []string
}

// IsOutbound reports whether r is an outbound relation (this document
// carries the related document's id).
func (r *Relation) IsOutbound() bool {
	return r != nil && r.SelfReferentialForeignKey == ""
}

// IsInbound reports whether r is an inbound relation (the related
// document carries this document's id).
func (r *Relation) IsInbound() bool {
	return r != nil && r.SelfReferentialForeignKey != ""
}

// AggregationDetail marks a field as an aggregated-value projection (e.g. a
// sum/min/max bucket) rather than a direct document field.
type AggregationDetail struct {
	SourceField string
	Function    string // e.g. "sum", "min", "max", "avg", "cardinality"
}

// ListIndexing describes how a list-typed field's values are stored, which
// determines whether an any_satisfy filter against it must open a nested
// query scope.
type ListIndexing string

// ListIndexing constants.
const (
	// ListIndexingNone marks a field that isn't a list (or whose list
	// values are scalars with no sub-structure to scope).
	ListIndexingNone ListIndexing = ""
	// ListIndexingNested marks a list of object values indexed as
	// independent nested documents: filtering one element's sub-fields
	// must not see another element's values for the same sub-field.
	ListIndexingNested ListIndexing = "nested"
	// ListIndexingObject marks a list of object values flattened into
	// parallel arrays on the parent document: filtering an element's
	// sub-field never re-opens a nested scope, since the datastore has
	// already flattened the list away.
	ListIndexingObject ListIndexing = "object"
)

// Field is one field of an object/interface type.
type Field struct {
	name         string
	parent       *Type
	fieldType    *Type
	nameInIndex  string
	relation     *Relation
	aggregation  *AggregationDetail
	listIndexing ListIndexing
}

// ListIndexing reports how this field's list values (if any) are indexed.
func (f *Field) ListIndexing() ListIndexing {
	return f.listIndexing
}

// Name returns the GraphQL field name.
func (f *Field) Name() string {
	return f.name
}

// Type returns the field's declared (possibly wrapped) type.
func (f *Field) Type() *Type {
	return f.fieldType
}

// NameInIndex returns the field's name as stored in the backing index,
// defaulting to its GraphQL name when no override was configured.
func (f *Field) NameInIndex() string {
	if f.nameInIndex != "" {
		return f.nameInIndex
	}
	return f.name
}

// Relation returns the field's relation metadata, or nil for a plain
// (non-relation) field.
func (f *Field) Relation() *Relation {
	return f.relation
}

// IndexFieldNamesForResolution returns the set of index field names a
// resolver must read from a parent document to resolve this field:
//
//   - embedded objects and relay edges/connections need nothing from the
//     index directly (they recurse into nested resolvers instead);
//   - an outbound relation needs just its foreign key;
//   - an inbound relation needs the parent's own id, plus the relation's
//     self-referential foreign key;
//   - everything else needs its own (possibly renamed) index field.
func (f *Field) IndexFieldNamesForResolution() []string {
	if f.fieldType.FullyUnwrapped().IsEmbeddedObject() {
		return nil
	}
	if f.fieldType.IsRelayEdge() || f.fieldType.IsRelayConnection() {
		return nil
	}

	if f.relation.IsOutbound() {
		return []string{f.relation.ForeignKey}
	}
	if f.relation.IsInbound() {
		names := []string{"id"}
		if f.relation.SelfReferentialForeignKey != "" {
			names = append(names, f.relation.SelfReferentialForeignKey)
		}
		return names
	}

	return []string{f.NameInIndex()}
}

// Aggregation returns the field's aggregation metadata, or nil for a plain
// field.
func (f *Field) Aggregation() *AggregationDetail {
	return f.aggregation
}

// Parent returns the type this field is declared on.
func (f *Field) Parent() *Type {
	return f.parent
}
