package schema

// Builder assembles a Definition from pre-generated schema artifacts at
// boot time. It is not safe for concurrent use; construction happens once,
// single-threaded, before the Definition it produces is published for
// read-only use by the rest of the process.
type Builder struct {
	names ElementNames
	types map[string]*Type
}

// NewBuilder starts a new schema construction pass with the given element
// name spellings.
func NewBuilder(names ElementNames) *Builder {
	return &Builder{
		names: names,
		types: make(map[string]*Type),
	}
}

// ScalarRef returns the scalar type named name, creating it on first
// reference. Repeated references to a built-in scalar (String, Int, ID, ...)
// share the same *Type.
func (b *Builder) ScalarRef(name string) *Type {
	if t, ok := b.types[name]; ok {
		return t
	}
	t := &Type{name: name, kind: KindScalar}
	b.types[name] = t
	return t
}

// Enum declares a new enum type with no members; call AddEnumValue to
// populate it.
func (b *Builder) Enum(name string) *Type {
	t := &Type{name: name, kind: KindEnum, enumValues: make(map[string]*EnumValue)}
	b.types[name] = t
	return t
}

// EnumValueOptions configures a single enum member's runtime metadata.
type EnumValueOptions struct {
	SortClauses    []SortClause
	DatastoreValue string
	Abbreviation   string
}

// AddEnumValue registers a member of enumType.
func (b *Builder) AddEnumValue(enumType *Type, name string, opts EnumValueOptions) {
	enumType.enumValues[name] = &EnumValue{
		name:           name,
		sortClauses:    opts.SortClauses,
		datastoreValue: opts.DatastoreValue,
		abbreviation:   opts.Abbreviation,
	}
}

// ObjectOptions configures a freshly-declared object type.
type ObjectOptions struct {
	Indices               []*IndexDefinition
	AggregationSourceType string
	Categories            []Category
}

// Object declares a new object type.
func (b *Builder) Object(name string, opts ObjectOptions) *Type {
	t := &Type{
		name:                  name,
		kind:                  KindObject,
		indices:               opts.Indices,
		aggregationSourceType: opts.AggregationSourceType,
		fields:                make(map[string]*Field),
		categories:            categorySet(opts.Categories),
	}
	b.types[name] = t
	return t
}

// InputObject declares a new input object type, used for filter/sort
// argument shapes.
func (b *Builder) InputObject(name string) *Type {
	t := &Type{name: name, kind: KindInputObject, fields: make(map[string]*Field)}
	b.types[name] = t
	return t
}

// Interface declares a new interface type with the given possible
// (member) types.
func (b *Builder) Interface(name string, possibleTypes ...*Type) *Type {
	t := &Type{name: name, kind: KindInterface, fields: make(map[string]*Field), possibleTypes: possibleTypes}
	b.types[name] = t
	return t
}

// Union declares a new union type over the given member types.
func (b *Builder) Union(name string, members ...*Type) *Type {
	t := &Type{name: name, kind: KindUnion, possibleTypes: members}
	b.types[name] = t
	return t
}

// FieldOptions configures a field added to an object/interface/input type.
type FieldOptions struct {
	NameInIndex  string
	Relation     *Relation
	Aggregation  *AggregationDetail
	ListIndexing ListIndexing
}

// AddField adds a field named name of type fieldType to parent.
func (b *Builder) AddField(parent *Type, name string, fieldType *Type, opts FieldOptions) *Field {
	f := &Field{
		name:         name,
		parent:       parent,
		fieldType:    fieldType,
		nameInIndex:  opts.NameInIndex,
		relation:     opts.Relation,
		aggregation:  opts.Aggregation,
		listIndexing: opts.ListIndexing,
	}
	parent.fields[name] = f
	if parent.fieldsByIndex == nil {
		parent.fieldsByIndex = make(map[string]*Field)
	}
	parent.fieldsByIndex[f.NameInIndex()] = f
	return f
}

func categorySet(categories []Category) map[Category]bool {
	if len(categories) == 0 {
		return nil
	}
	set := make(map[Category]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return set
}

// Build finalizes construction and returns the immutable Definition.
func (b *Builder) Build() *Definition {
	return NewDefinition(b.names, b.types)
}
