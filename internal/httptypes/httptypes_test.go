package httptypes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elasticgraph/elasticgraph-go/internal/httptypes"
)

func TestNormalizeHeaderNameTreatsDashAndUnderscoreVariantsAlike(t *testing.T) {
	for _, name := range []string{"Content-Type", "content-type", "CONTENT-TYPE", "CONTENT_TYPE", "content_type"} {
		assert.Equal(t, "CONTENT-TYPE", httptypes.NormalizeHeaderName(name), "input: %s", name)
	}
}

func TestRequestHeaderLooksUpCaseInsensitively(t *testing.T) {
	req := &httptypes.Request{Headers: httptypes.NewHeaders(map[string]string{
		"ElasticGraph-Request-Timeout-Ms": "500",
	})}

	v, ok := req.Header("elasticgraph_request_timeout_ms")
	assert.True(t, ok)
	assert.Equal(t, "500", v)
}

func TestRequestHeaderMissing(t *testing.T) {
	req := &httptypes.Request{}
	_, ok := req.Header("Content-Type")
	assert.False(t, ok)
}
