package schema

// Kind identifies which GraphQL type system category a Type belongs to.
type Kind string

// Kind constants.
const (
	KindScalar      Kind = "SCALAR"
	KindEnum        Kind = "ENUM"
	KindObject      Kind = "OBJECT"
	KindInterface   Kind = "INTERFACE"
	KindUnion       Kind = "UNION"
	KindInputObject Kind = "INPUT_OBJECT"
)

// wrapKind identifies the orthogonal list/non-null wrapper, if any, applied
// to an otherwise-named type.
type wrapKind string

const (
	wrapNone    wrapKind = ""
	wrapList    wrapKind = "LIST"
	wrapNonNull wrapKind = "NON_NULL"
)

// Category tags a named (unwrapped) type with a role the compiler/response
// layer needs to recognize structurally rather than by name.
type Category string

// Category constants from spec §3.
const (
	CategoryRelayConnection       Category = "relay_connection"
	CategoryRelayEdge             Category = "relay_edge"
	CategoryIndexedAggregation    Category = "indexed_aggregation"
	CategoryScalarAggregatedValues Category = "scalar_aggregated_values"
)

// IndexDefinition describes one backing index (or rollover alias) a type's
// documents live in.
type IndexDefinition struct {
	Name          string
	ClusterName   string
	Queryable     bool
	RolloverField string // non-empty if this is a rollover (time-partitioned) index
}

// Type is the in-memory projection of a GraphQL type, plus the runtime
// metadata (index definitions, category tags) ElasticGraph attaches to it.
//
// Wrapped types (list-of and non-null-of) are themselves *Type values with
// wrap set and ofType pointing at the type they wrap; a bare named type has
// wrap == wrapNone and ofType == nil.
type Type struct {
	name   string
	kind   Kind
	wrap   wrapKind
	ofType *Type

	categories map[Category]bool
	indices    []*IndexDefinition

	// aggregationSourceType names the indexed document type an
	// indexed_aggregation type delegates queryability/index-resolution to.
	aggregationSourceType string

	// possibleTypes lists union/interface members, for search-index
	// resolution that must union across them.
	possibleTypes []*Type

	fields         map[string]*Field
	fieldsByIndex  map[string]*Field

	// enumValues holds this type's members when kind == KindEnum.
	enumValues map[string]*EnumValue

	def *Definition
}

// EnumValue looks up a member of an enum type by its GraphQL name.
func (t *Type) EnumValue(name string) (*EnumValue, error) {
	u := t.unwrapNonNullOnly()
	if v, ok := u.enumValues[name]; ok {
		return v, nil
	}
	names := make([]string, 0, len(u.enumValues))
	for n := range u.enumValues {
		names = append(names, n)
	}
	return nil, u.def.notFoundError("enum value", name, names)
}

// Name returns the bare type name. Wrapped types return the same name as
// the type they wrap, matching GraphQL's own convention that "[Widget!]!"
// and "Widget" share a name in error messages.
func (t *Type) Name() string {
	if t.wrap != wrapNone {
		return t.ofType.Name()
	}
	return t.name
}

// Kind returns the bare type's kind.
func (t *Type) Kind() Kind {
	if t.wrap != wrapNone {
		return t.ofType.Kind()
	}
	return t.kind
}

// Nullable reports whether this exact wrapper level permits null.
func (t *Type) Nullable() bool {
	return t.wrap != wrapNonNull
}

// NonNullOf returns a non-null wrapper around t.
func NonNullOf(t *Type) *Type {
	return &Type{wrap: wrapNonNull, ofType: t, def: t.def}
}

// ListOf returns a list wrapper around t.
func ListOf(t *Type) *Type {
	return &Type{wrap: wrapList, ofType: t, def: t.def}
}

// unwrapNonNullOnly strips only adjacent non-null wrappers, leaving list
// wrappers (and the bare type) untouched. Predicates use this so that a
// list of Ts and a non-null list of Ts are both reported as collections,
// while a list of objects is never itself reported as an object.
func (t *Type) unwrapNonNullOnly() *Type {
	cur := t
	for cur.wrap == wrapNonNull {
		cur = cur.ofType
	}
	return cur
}

// UnwrapNonNull drops exactly one outer non-null layer, if present.
func (t *Type) UnwrapNonNull() *Type {
	if t.wrap == wrapNonNull {
		return t.ofType
	}
	return t
}

// UnwrapList drops one list layer (and any outer non-null ahead of it).
func (t *Type) UnwrapList() *Type {
	u := t.UnwrapNonNull()
	if u.wrap == wrapList {
		return u.ofType
	}
	return u
}

// stripWrappers removes every list/non-null layer, in whatever order they
// were applied, leaving the bare named type.
func (t *Type) stripWrappers() *Type {
	cur := t
	for cur.wrap != wrapNone {
		cur = cur.ofType
	}
	return cur
}

// FullyUnwrapped recursively removes list and non-null wrappers, and if the
// result is a relay connection, continues into edges.node so that callers
// always land on the real underlying object/scalar type.
func (t *Type) FullyUnwrapped() *Type {
	cur := t.stripWrappers()
	if cur.IsRelayConnection() {
		return cur.connectionNodeType().FullyUnwrapped()
	}
	return cur
}

// connectionNodeType resolves a relay connection type's edges.node type. A
// connection type with no edges/node field is a schema-construction bug
// (the Non-goal: schema-definition validation happens upstream of this
// core), so this panics rather than threading an error through every
// wrapping-arithmetic call site.
func (t *Type) connectionNodeType() *Type {
	edges, ok := t.fields["edges"]
	if !ok {
		panic("elasticgraph: relay connection type " + t.name + " has no edges field")
	}
	edgeType := edges.Type().FullyUnwrapped()

	node, ok := edgeType.fields["node"]
	if !ok {
		panic("elasticgraph: relay edge type " + edgeType.name + " has no node field")
	}
	return node.Type()
}

// IsObject reports whether t (after stripping non-null only) is an object.
func (t *Type) IsObject() bool {
	u := t.unwrapNonNullOnly()
	return u.wrap == wrapNone && u.kind == KindObject
}

// IsAbstract reports whether t (after stripping non-null only) is an
// interface or union.
func (t *Type) IsAbstract() bool {
	u := t.unwrapNonNullOnly()
	return u.wrap == wrapNone && (u.kind == KindInterface || u.kind == KindUnion)
}

// IsCollection reports whether t (after stripping non-null only) is a list.
// A non-null list of Ts is a collection just as much as a nullable one.
func (t *Type) IsCollection() bool {
	u := t.unwrapNonNullOnly()
	return u.wrap == wrapList
}

// IsEmbeddedObject reports whether t's fully unwrapped type is an object
// type with no backing index of its own (it only ever appears nested
// inside a parent document).
func (t *Type) IsEmbeddedObject() bool {
	u := t.FullyUnwrapped()
	return u.kind == KindObject && len(u.indices) == 0 && u.aggregationSourceType == ""
}

// IsIndexedDocument reports whether t's fully unwrapped type has at least
// one backing index of its own.
func (t *Type) IsIndexedDocument() bool {
	u := t.FullyUnwrapped()
	return u.kind == KindObject && len(u.indices) > 0
}

// IsIndexedAggregation reports whether t is tagged as an aggregation type
// that delegates index resolution to an underlying indexed document type.
func (t *Type) IsIndexedAggregation() bool {
	u := t.unwrapNonNullOnly()
	return u.hasCategory(CategoryIndexedAggregation)
}

// IsRelayConnection reports whether t (after stripping non-null only) is
// tagged as a relay connection.
func (t *Type) IsRelayConnection() bool {
	u := t.unwrapNonNullOnly()
	return u.hasCategory(CategoryRelayConnection)
}

// IsRelayEdge reports whether t (after stripping non-null only) is tagged
// as a relay edge.
func (t *Type) IsRelayEdge() bool {
	u := t.unwrapNonNullOnly()
	return u.hasCategory(CategoryRelayEdge)
}

func (t *Type) hasCategory(c Category) bool {
	return t.categories != nil && t.categories[c]
}

// HiddenFromQueries reports whether every backing index of t's fully
// unwrapped type is configured without a queryable cluster. Aggregation
// types delegate to their source document type so that queryability
// tracks the underlying data rather than the aggregation projection.
func (t *Type) HiddenFromQueries() (bool, error) {
	u := t.FullyUnwrapped()

	indices, err := u.SearchIndexDefinitions()
	if err != nil {
		return false, err
	}
	if len(indices) == 0 {
		return false, nil
	}
	for _, idx := range indices {
		if idx.Queryable {
			return false, nil
		}
	}
	return true, nil
}

// SearchIndexDefinitions returns the backing indices for t, following union
// and interface membership and aggregation-to-source-document delegation.
func (t *Type) SearchIndexDefinitions() ([]*IndexDefinition, error) {
	bare := t.unwrapNonNullOnly()

	if bare.kind == KindUnion || bare.kind == KindInterface {
		var all []*IndexDefinition
		seen := map[string]bool{}
		for _, member := range bare.possibleTypes {
			memberIndices, err := member.SearchIndexDefinitions()
			if err != nil {
				return nil, err
			}
			for _, idx := range memberIndices {
				if !seen[idx.Name] {
					seen[idx.Name] = true
					all = append(all, idx)
				}
			}
		}
		return all, nil
	}

	if bare.aggregationSourceType != "" {
		source, err := bare.def.Lookup(bare.aggregationSourceType)
		if err != nil {
			return nil, err
		}
		return source.SearchIndexDefinitions()
	}

	return bare.indices, nil
}

// Field looks up a field by GraphQL name on t's fully unwrapped type.
func (t *Type) Field(name string) (*Field, error) {
	u := t.FullyUnwrapped()
	if f, ok := u.fields[name]; ok {
		return f, nil
	}
	return nil, u.def.notFoundError("field", name, u.fieldNames())
}

// FieldByIndexName looks up a field by its name_in_index on t's fully
// unwrapped type. The filter compiler uses this to re-resolve a field after
// the filter argument translator has already renamed a filter tree's keys
// from GraphQL names to index names.
func (t *Type) FieldByIndexName(name string) (*Field, error) {
	u := t.FullyUnwrapped()
	if f, ok := u.fieldsByIndex[name]; ok {
		return f, nil
	}
	return nil, u.def.notFoundError("field", name, u.fieldNames())
}

func (t *Type) fieldNames() []string {
	names := make([]string, 0, len(t.fields))
	for n := range t.fields {
		names = append(names, n)
	}
	return names
}
