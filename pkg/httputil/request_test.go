package httputil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError string
	}{
		{
			name: "valid JSON",
			body: `{"name": "test"}`,
		},
		{
			name:        "invalid JSON",
			body:        `{invalid}`,
			expectError: "invalid JSON",
		},
		{
			name:        "empty body",
			body:        ``,
			expectError: "request body is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/test", bytes.NewBufferString(tt.body))
			var dest map[string]string

			err := ParseJSON(req, &dest)

			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "test", dest["name"])
			}
		})
	}
}

func TestParseJSONOrError(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/test", bytes.NewBufferString(`{"name":"Lunch"}`))
		var dest struct {
			Name string `json:"name"`
		}

		assert.True(t, ParseJSONOrError(w, req, &dest))
		assert.Equal(t, "Lunch", dest.Name)
	})

	t.Run("invalid writes 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/test", bytes.NewBufferString(`nope`))
		var dest map[string]string

		assert.False(t, ParseJSONOrError(w, req, &dest))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decodeErrorBody(t, w).Message)
	})
}

func TestParsePathString(t *testing.T) {
	req := httptest.NewRequest("GET", "/restaurants/r1", nil)
	req = mux.SetURLVars(req, map[string]string{"restaurantId": "r1"})

	got, err := ParsePathString(req, "restaurantId")
	require.NoError(t, err)
	assert.Equal(t, "r1", got)

	_, err = ParsePathString(req, "menuId")
	assert.Error(t, err)
}

func TestGetPathVars(t *testing.T) {
	req := httptest.NewRequest("GET", "/menus/m1/items/i1", nil)
	vars := map[string]string{"menuId": "m1", "itemId": "i1"}
	req = mux.SetURLVars(req, vars)

	assert.Equal(t, vars, GetPathVars(req))
}

func TestParseQueryString(t *testing.T) {
	req := httptest.NewRequest("GET", "/test?name=value", nil)

	assert.Equal(t, "value", ParseQueryString(req, "name", "default"))
	assert.Equal(t, "default", ParseQueryString(req, "missing", "default"))
}

func TestParseQueryList(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"absent", "", nil},
		{"comma separated", "?ids=a,b", []string{"a", "b"}},
		{"repeated", "?ids=a&ids=b", []string{"a", "b"}},
		{"mixed with blanks and duplicates", "?ids=a,,b&ids=%20c%20,a", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/internal/items"+tt.query, nil)
			assert.Equal(t, tt.want, ParseQueryList(req, "ids"))
		})
	}
}

func BenchmarkParseJSON(b *testing.B) {
	body := []byte(`{"displayName":"Soup","shortName":"SP","price":4.5}`)
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("POST", "/test", bytes.NewReader(body))
		var dest map[string]interface{}
		_ = ParseJSON(req, &dest)
	}
}
