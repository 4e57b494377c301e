package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type clientPayload struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		key     string
		body    string
		want    clientPayload
		wantErr bool
	}{
		{
			name: "wrapped payload",
			key:  "client",
			body: `{"client": {"full_name": "Ana García", "phone": "600111222"}}`,
			want: clientPayload{FullName: "Ana García", Phone: "600111222"},
		},
		{
			name: "flat payload",
			key:  "client",
			body: `{"full_name": "Luis Pérez", "phone": "600333444"}`,
			want: clientPayload{FullName: "Luis Pérez", Phone: "600333444"},
		},
		{
			name: "flat payload with unrelated sibling keys",
			key:  "client",
			body: `{"source": "web", "full_name": "Marta Ruiz", "phone": "600555666"}`,
			want: clientPayload{FullName: "Marta Ruiz", Phone: "600555666"},
		},
		{
			name: "project wrapper key",
			key:  "project",
			body: `{"project": {"full_name": "Proyecto Demo"}}`,
			want: clientPayload{FullName: "Proyecto Demo"},
		},
		{
			name:    "type mismatch in flat payload",
			key:     "client",
			body:    `{"full_name": "Eva", "phone": 600}`,
			wantErr: true,
		},
		{
			name:    "type mismatch inside wrapper",
			key:     "client",
			body:    `{"client": {"full_name": "Eva", "phone": 600}}`,
			wantErr: true,
		},
		{
			name:    "wrapper key holding a non-object",
			key:     "client",
			body:    `{"client": "texto"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var got clientPayload
			err := BindNestedOrFlat(c, tt.key, &got)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBindNestedOrFlat_BodyRemainsReadable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"client": {"full_name": "Ana"}}`
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(body))

	var first, second clientPayload
	assert.NoError(t, BindNestedOrFlat(c, "client", &first))
	assert.NoError(t, BindNestedOrFlat(c, "client", &second))
	assert.Equal(t, first, second)
}
