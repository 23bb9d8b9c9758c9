package graphql

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elasticgraph/elasticgraph-go/internal/httptypes"
)

func TestParseRejectsUnsupportedMethod(t *testing.T) {
	_, err := parse(&httptypes.Request{Method: "PUT"})
	require.Error(t, err)
	var se *statusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusMethodNotAllowed, se.status)
	assert.Equal(t, "GraphQL only supports GET and POST requests.", se.message)
}

func TestParsePostJSONBody(t *testing.T) {
	req := &httptypes.Request{
		Method:  "POST",
		Headers: httptypes.NewHeaders(map[string]string{"Content-Type": "application/json"}),
		Body:    []byte(`{"query":"{ widgets { id } }","variables":{"limit":5},"operationName":"Widgets"}`),
	}
	parsed, err := parse(req)
	require.NoError(t, err)
	assert.Equal(t, "{ widgets { id } }", parsed.Query)
	assert.Equal(t, "Widgets", parsed.OperationName)
	assert.Equal(t, float64(5), parsed.Variables["limit"])
}

func TestParsePostRawGraphQLBody(t *testing.T) {
	req := &httptypes.Request{
		Method:  "POST",
		Headers: httptypes.NewHeaders(map[string]string{"Content-Type": "application/graphql"}),
		Body:    []byte("{ widgets { id } }"),
	}
	parsed, err := parse(req)
	require.NoError(t, err)
	assert.Equal(t, "{ widgets { id } }", parsed.Query)
	assert.Nil(t, parsed.Variables)
}

func TestParsePostUnsupportedContentType(t *testing.T) {
	req := &httptypes.Request{
		Method:  "POST",
		Headers: httptypes.NewHeaders(map[string]string{"Content-Type": "text/plain"}),
		Body:    []byte("whatever"),
	}
	_, err := parse(req)
	require.Error(t, err)
	var se *statusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnsupportedMediaType, se.status)
	assert.Contains(t, se.message, "is not a supported content type")
}

func TestParsePostInvalidJSONBody(t *testing.T) {
	req := &httptypes.Request{
		Method:  "POST",
		Headers: httptypes.NewHeaders(map[string]string{"Content-Type": "application/json"}),
		Body:    []byte("{not json"),
	}
	_, err := parse(req)
	require.Error(t, err)
	var se *statusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Request body is invalid JSON.", se.message)
}

func TestParsePostVariablesNotAnObject(t *testing.T) {
	req := &httptypes.Request{
		Method:  "POST",
		Headers: httptypes.NewHeaders(map[string]string{"Content-Type": "application/json"}),
		Body:    []byte(`{"query":"{ widgets { id } }","variables":[1,2]}`),
	}
	_, err := parse(req)
	require.Error(t, err)
	var se *statusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "`variables` must be a JSON object but was not.", se.message)
}

func TestParseGetDecodesVariablesFromQueryString(t *testing.T) {
	req := &httptypes.Request{
		Method: "GET",
		Query: map[string][]string{
			"query":         {"query Widgets($limit: Int) { widgets(limit: $limit) { id } }"},
			"operationName": {"Widgets"},
			"variables":     {`{"limit":5}`},
		},
	}
	parsed, err := parse(req)
	require.NoError(t, err)
	assert.Equal(t, "Widgets", parsed.OperationName)
	assert.Equal(t, float64(5), parsed.Variables["limit"])
}

func TestParseGetInvalidVariablesJSON(t *testing.T) {
	req := &httptypes.Request{
		Method: "GET",
		Query: map[string][]string{
			"query":     {"{ widgets { id } }"},
			"variables": {"{not json"},
		},
	}
	_, err := parse(req)
	require.Error(t, err)
	var se *statusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Variables are invalid JSON.", se.message)
}
