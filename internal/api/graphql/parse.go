package graphql

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/elasticgraph/elasticgraph-go/internal/httptypes"
)

// acceptedContentTypes are the media types (ignoring any ";charset=..."
// parameter) a POST body may be sent as.
var acceptedContentTypes = []string{"application/json", "application/graphql"}

// request is a single parsed GraphQL request, regardless of which of the
// three accepted wire forms it arrived as.
type request struct {
	Query         string
	OperationName string
	Variables     map[string]any
}

// parse extracts a request from raw in one of its three accepted forms: a
// POST body of `application/json` (`{query, variables?, operationName?}`),
// a POST body of `application/graphql` (the raw query string, no
// variables), or a GET request's URL query parameters (`variables` is a
// JSON-encoded string). An empty operationName is normalized to absent.
func parse(raw *httptypes.Request) (request, error) {
	switch raw.Method {
	case "POST":
		return parsePost(raw)
	case "GET":
		return parseGet(raw)
	default:
		return request{}, newStatusError(http.StatusMethodNotAllowed, "GraphQL only supports GET and POST requests.")
	}
}

func parsePost(raw *httptypes.Request) (request, error) {
	contentType, _ := raw.Header("Content-Type")
	mediaType := strings.TrimSpace(strings.ToLower(strings.SplitN(contentType, ";", 2)[0]))
	if mediaType == "" {
		mediaType = "application/json"
	}

	switch mediaType {
	case "application/graphql":
		return request{Query: string(raw.Body)}, nil
	case "application/json":
		return parseJSONBody(raw.Body)
	default:
		return request{}, newStatusError(http.StatusUnsupportedMediaType,
			"%s is not a supported content type for a POST request.", contentType)
	}
}

func parseJSONBody(body []byte) (request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return request{}, newStatusError(http.StatusBadRequest, "Request body is invalid JSON.")
	}

	result := request{}
	if raw, ok := fields["query"]; ok {
		if err := json.Unmarshal(raw, &result.Query); err != nil {
			return request{}, newStatusError(http.StatusBadRequest, "Request body is invalid JSON.")
		}
	}
	if raw, ok := fields["operationName"]; ok {
		_ = json.Unmarshal(raw, &result.OperationName)
	}
	if raw, ok := fields["variables"]; ok && string(raw) != "null" {
		variables, err := decodeVariablesObject(raw)
		if err != nil {
			return request{}, err
		}
		result.Variables = variables
	}

	return result, nil
}

func parseGet(raw *httptypes.Request) (request, error) {
	values := raw.Query

	result := request{Query: firstOf(values["query"])}
	result.OperationName = firstOf(values["operationName"])

	if variablesStr := firstOf(values["variables"]); variablesStr != "" {
		variables, err := decodeVariablesObject(json.RawMessage(variablesStr))
		if err != nil {
			return request{}, err
		}
		result.Variables = variables
	}

	return result, nil
}

// decodeVariablesObject decodes raw as a JSON object, distinguishing
// malformed JSON from validly-parsed JSON that isn't an object (e.g. a
// list or a scalar) since the two fail the request for different reasons.
func decodeVariablesObject(raw json.RawMessage) (map[string]any, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, newStatusError(http.StatusBadRequest, "Variables are invalid JSON.")
	}
	m, ok := generic.(map[string]any)
	if !ok {
		return nil, newStatusError(http.StatusBadRequest, "`variables` must be a JSON object but was not.")
	}
	return m, nil
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
