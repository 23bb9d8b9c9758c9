package filterarg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elasticgraph/elasticgraph-go/internal/filterarg"
	"github.com/elasticgraph/elasticgraph-go/internal/schema"
)

// buildTestSchema wires up a tiny filter-type schema: a StringFilterInput
// with an equal_to_any_of field, and a top-level WidgetFilterInput with a
// "status" field (of enum type) and a "name" field (of the string filter).
func buildTestSchema(t *testing.T) (*schema.Type, *schema.Type) {
	t.Helper()

	b := schema.NewBuilder(schema.DefaultElementNames())

	statusEnum := b.Enum("Status")
	b.AddEnumValue(statusEnum, "ACTIVE", schema.EnumValueOptions{DatastoreValue: "active"})
	b.AddEnumValue(statusEnum, "RETIRED", schema.EnumValueOptions{DatastoreValue: "retired"})

	stringFilter := b.InputObject("StringFilterInput")
	b.AddField(stringFilter, "equal_to_any_of", schema.ListOf(b.ScalarRef("String")), schema.FieldOptions{})

	statusFilter := b.InputObject("StatusFilterInput")
	b.AddField(statusFilter, "equal_to_any_of", schema.ListOf(statusEnum), schema.FieldOptions{})

	widgetFilter := b.InputObject("WidgetFilterInput")
	b.AddField(widgetFilter, "name", stringFilter, schema.FieldOptions{})
	b.AddField(widgetFilter, "status", statusFilter, schema.FieldOptions{NameInIndex: "status_code"})

	def := b.Build()
	wf, err := def.Lookup("WidgetFilterInput")
	require.NoError(t, err)
	se, err := def.Lookup("Status")
	require.NoError(t, err)
	return wf, se
}

func TestTranslateRenamesKeysToNameInIndex(t *testing.T) {
	widgetFilter, _ := buildTestSchema(t)

	raw := map[string]any{
		"status": map[string]any{
			"equal_to_any_of": []any{"ACTIVE"},
		},
	}

	out, err := filterarg.Translate(raw, widgetFilter)
	require.NoError(t, err)

	translated := out.(map[string]any)
	statusNode, ok := translated["status_code"]
	require.True(t, ok, "status should be renamed to its name_in_index")

	statusMap := statusNode.(map[string]any)
	values := statusMap["equal_to_any_of"].([]any)
	require.Len(t, values, 1)

	enumValue, ok := values[0].(*schema.EnumValue)
	require.True(t, ok, "enum leaf should resolve to an EnumValue")
	assert.Equal(t, "active", enumValue.DatastoreValue())
}

func TestTranslateUnknownFieldErrors(t *testing.T) {
	widgetFilter, _ := buildTestSchema(t)

	_, err := filterarg.Translate(map[string]any{"nonexistent": "x"}, widgetFilter)
	require.Error(t, err)
}

func TestTranslateNonEnumLeafPassesThrough(t *testing.T) {
	widgetFilter, _ := buildTestSchema(t)

	raw := map[string]any{
		"name": map[string]any{
			"equal_to_any_of": []any{"widget-1", "widget-2"},
		},
	}

	out, err := filterarg.Translate(raw, widgetFilter)
	require.NoError(t, err)

	translated := out.(map[string]any)
	nameNode := translated["name"].(map[string]any)
	values := nameNode["equal_to_any_of"].([]any)
	assert.Equal(t, []any{"widget-1", "widget-2"}, values)
}
