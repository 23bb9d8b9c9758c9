package graphql

import (
	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

// errorCodeExtension maps an internal error code to the string clients see
// in a GraphQL error's "extensions.code" field.
var errorCodeExtension = map[errors.Code]string{
	errors.EInternal:                "INTERNAL_ERROR",
	errors.EInvalid:                 "INVALID_REQUEST",
	errors.EInvalidCursor:           "INVALID_CURSOR",
	errors.EInvalidSortFields:       "INVALID_SORT_FIELDS",
	errors.ECursorEncoding:          "CURSOR_ENCODING_ERROR",
	errors.ERequestExceededDeadline: "DEADLINE_EXCEEDED",
	errors.ESearchFailed:            "SEARCH_FAILED",
	errors.ECountUnavailable:        "COUNT_UNAVAILABLE",
	errors.ENotFound:                "NOT_FOUND",
	errors.ESchema:                  "SCHEMA_ERROR",
	errors.EConfig:                  "CONFIG_ERROR",
}

// extensionsFor builds the "extensions" object attached to a single
// GraphQL error, sanitizing internal error messages so resolvers never
// leak implementation detail to clients.
func extensionsFor(err error) (message string, extensions map[string]any) {
	code := errors.ErrorCode(err)
	label, ok := errorCodeExtension[code]
	if !ok {
		label = errorCodeExtension[errors.EInternal]
	}
	return errors.ErrorMessage(err), map[string]any{"code": label}
}
