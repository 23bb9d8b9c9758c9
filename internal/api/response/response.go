// Package response writes plain JSON HTTP responses for the gateway
// server's non-GraphQL endpoints (health, readiness). The GraphQL endpoint
// itself builds its own response envelope in internal/api/graphql, since
// its body shape (data/errors) is fixed by the GraphQL wire contract
// rather than this package's generic error/model envelope.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

const contentTypeJSON = "application/json"

type errorResponse struct {
	Detail string `json:"detail"`
}

// Writer provides utility functions for responding to http requests.
type Writer interface {
	RespondWithError(w http.ResponseWriter, err error)
	RespondWithJSON(w http.ResponseWriter, model interface{}, statusCode int)
}

type responseHelper struct {
	logger logger.Logger
}

var errorCodeToStatusCode = map[errors.Code]int{
	errors.EInternal:                http.StatusInternalServerError,
	errors.EInvalid:                 http.StatusBadRequest,
	errors.EInvalidCursor:           http.StatusBadRequest,
	errors.EInvalidSortFields:       http.StatusBadRequest,
	errors.ECursorEncoding:          http.StatusBadRequest,
	errors.ERequestExceededDeadline: http.StatusGatewayTimeout,
	errors.ESearchFailed:            http.StatusBadGateway,
	errors.ECountUnavailable:        http.StatusBadGateway,
	errors.ENotFound:                http.StatusNotFound,
	errors.ESchema:                  http.StatusInternalServerError,
	errors.EConfig:                  http.StatusInternalServerError,
}

// NewWriter creates an instance of Writer.
func NewWriter(logger logger.Logger) Writer {
	return &responseHelper{logger}
}

// RespondWithError responds to an http request with an error response.
func (rh *responseHelper) RespondWithError(w http.ResponseWriter, err error) {
	rh.logger.Errorf("unexpected error occurred: %s", err.Error())
	code := ErrorCodeToStatusCode(errors.ErrorCode(err))
	rh.RespondWithJSON(w, &errorResponse{Detail: errors.ErrorMessage(err)}, code)
}

// RespondWithJSON responds to an http request with a json payload.
func (rh *responseHelper) RespondWithJSON(w http.ResponseWriter, model interface{}, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)

	if model == nil {
		return
	}

	body, err := json.Marshal(model)
	if err != nil {
		rh.logger.Errorf("failed to marshal response body: %s", err.Error())
		return
	}
	if _, err := w.Write(body); err != nil {
		rh.logger.Errorf("failed to write response body: %s", err.Error())
	}
}

// ErrorCodeToStatusCode maps an internal error code to an HTTP status code.
func ErrorCodeToStatusCode(code errors.Code) int {
	statusCode, ok := errorCodeToStatusCode[code]
	if ok {
		return statusCode
	}
	return http.StatusInternalServerError
}
