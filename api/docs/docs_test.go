package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecIsValidJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Spec()(rec, httptest.NewRequest(http.MethodGet, "/swagger.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/api/kyc/submit")
	assert.Contains(t, paths, "/api/store/storefront/{storeUrl}")
}

func TestUIReferencesSpec(t *testing.T) {
	rec := httptest.NewRecorder()
	UI()(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/swagger.json")
}
