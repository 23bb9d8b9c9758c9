package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexFieldNamesForResolutionPlainField(t *testing.T) {
	f := &Field{name: "amount", fieldType: scalarType("Int")}
	assert.Equal(t, []string{"amount"}, f.IndexFieldNamesForResolution())
}

func TestIndexFieldNamesForResolutionRenamedField(t *testing.T) {
	f := &Field{name: "amount", fieldType: scalarType("Int"), nameInIndex: "amount_cents"}
	assert.Equal(t, []string{"amount_cents"}, f.IndexFieldNamesForResolution())
}

func TestIndexFieldNamesForResolutionEmbeddedObject(t *testing.T) {
	embedded := &Type{name: "Money", kind: KindObject}
	f := &Field{name: "price", fieldType: embedded}
	assert.Nil(t, f.IndexFieldNamesForResolution())
}

func TestIndexFieldNamesForResolutionOutboundRelation(t *testing.T) {
	related := &Type{name: "Manufacturer", kind: KindObject, indices: []*IndexDefinition{{Name: "manufacturers"}}}
	f := &Field{
		name:      "manufacturer",
		fieldType: related,
		relation:  &Relation{ForeignKey: "manufacturer_id", RelatedType: "Manufacturer"},
	}
	assert.Equal(t, []string{"manufacturer_id"}, f.IndexFieldNamesForResolution())
}

func TestIndexFieldNamesForResolutionInboundRelation(t *testing.T) {
	related := &Type{name: "Part", kind: KindObject, indices: []*IndexDefinition{{Name: "parts"}}}
	f := &Field{
		name:      "parts",
		fieldType: ListOf(related),
		relation: &Relation{
			SelfReferentialForeignKey: "widget_id",
			RelatedType:               "Part",
			Many:                      true,
		},
	}
	assert.Equal(t, []string{"id", "widget_id"}, f.IndexFieldNamesForResolution())
}

func TestIndexFieldNamesForResolutionRelayConnection(t *testing.T) {
	node := &Type{name: "Widget", kind: KindObject}
	edge := &Type{
		name:       "WidgetEdge",
		kind:       KindObject,
		categories: map[Category]bool{CategoryRelayEdge: true},
		fields:     map[string]*Field{"node": {name: "node", fieldType: node}},
	}
	connection := &Type{
		name:       "WidgetConnection",
		kind:       KindObject,
		categories: map[Category]bool{CategoryRelayConnection: true},
		fields:     map[string]*Field{"edges": {name: "edges", fieldType: ListOf(edge)}},
	}

	f := &Field{name: "widgets", fieldType: connection}
	assert.Nil(t, f.IndexFieldNamesForResolution())
}

func TestNameInIndexDefaultsToName(t *testing.T) {
	f := &Field{name: "amount"}
	assert.Equal(t, "amount", f.NameInIndex())
}
