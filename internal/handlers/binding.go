package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat decodes the request body into obj, accepting both the
// wrapped form the web client sends ({"client": {...}}) and a flat object.
// When the wrapper key is present its value must decode into obj; otherwise
// the whole body is decoded. The body is restored so later middleware can
// still read it.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if wrapped, ok := envelope[key]; ok {
			return json.Unmarshal(wrapped, obj)
		}
	}

	return json.Unmarshal(body, obj)
}
