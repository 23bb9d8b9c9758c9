package cursor

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestRoundTrip(t *testing.T) {
	factory, err := NewFactory([]string{"created_at", "amount"})
	require.NoError(t, err)

	built, err := factory.Build([]any{"2019-06-12T12:33:30Z", float64(250)})
	require.NoError(t, err)

	token, err := built.Encode()
	require.NoError(t, err)
	assert.Regexp(t, urlSafe, token)

	decoded, err := Decode(token)
	require.NoError(t, err)
	assert.True(t, decoded.SortValues.Equal(built.SortValues))
}

func TestSingleton(t *testing.T) {
	decoded, err := Decode(SingletonCursor)
	require.NoError(t, err)
	assert.Equal(t, Singleton, decoded)
	assert.True(t, decoded.IsSingleton())
	assert.Equal(t, 0, decoded.SortValues.Len())

	token, err := Singleton.Encode()
	require.NoError(t, err)
	assert.Equal(t, SingletonCursor, token)
}

func TestFactoryRejectsDuplicateFields(t *testing.T) {
	_, err := NewFactory([]string{"name", "name"})
	require.Error(t, err)
	assert.Equal(t, errors.EInvalidSortFields, errors.ErrorCode(err))
}

func TestBuildRejectsCardinalityMismatch(t *testing.T) {
	factory, err := NewFactory([]string{"name", "created_at"})
	require.NoError(t, err)

	_, err = factory.Build([]any{"only-one"})
	require.Error(t, err)
	assert.Equal(t, errors.ECursorEncoding, errors.ErrorCode(err))
}

func TestDecodeInvalidBase64(t *testing.T) {
	_, err := Decode("not valid base64!!")
	require.Error(t, err)
	assert.Equal(t, errors.EInvalidCursor, errors.ErrorCode(err))
}

func TestDecodeInvalidJSON(t *testing.T) {
	// "bm90IGpzb24" is valid base64 for the bytes "not json", not valid JSON.
	_, err := Decode("bm90IGpzb24")
	require.Error(t, err)
	assert.Equal(t, errors.EInvalidCursor, errors.ErrorCode(err))
}

func TestTryDecodeIsTotal(t *testing.T) {
	assert.Nil(t, TryDecode("!!!not-a-cursor"))

	factory, err := NewFactory([]string{"id"})
	require.NoError(t, err)
	built, err := factory.Build([]any{"abc"})
	require.NoError(t, err)
	token, err := built.Encode()
	require.NoError(t, err)

	decoded := TryDecode(token)
	require.NotNil(t, decoded)
	assert.True(t, decoded.SortValues.Equal(built.SortValues))
}

func TestCursorSurvivesReorderedSortList(t *testing.T) {
	// A cursor encodes values by field name, so resuming with a
	// differently-ordered sort list still finds each value by name.
	factory, err := NewFactory([]string{"created_at", "amount"})
	require.NoError(t, err)
	built, err := factory.Build([]any{"2019-06-12T12:33:30Z", float64(250)})
	require.NoError(t, err)

	token, err := built.Encode()
	require.NoError(t, err)

	decoded, err := Decode(token)
	require.NoError(t, err)

	amount, ok := decoded.SortValues.Get("amount")
	require.True(t, ok)
	assert.Equal(t, float64(250), amount)

	createdAt, ok := decoded.SortValues.Get("created_at")
	require.True(t, ok)
	assert.Equal(t, "2019-06-12T12:33:30Z", createdAt)
}

func TestNullFactory(t *testing.T) {
	var f NullFactory
	built, err := f.Build([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, built.SortValues.Len())

	v, ok := built.SortValues.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", v)
}
