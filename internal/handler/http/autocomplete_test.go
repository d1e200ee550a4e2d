package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/service"
)

func newAutocompleteRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAutocompleteHandler(service.NewAutocompleteService())
	router := gin.New()
	router.POST("/autocomplete", handler.Suggest)
	return router
}

func TestSuggest_PythonDefPrefix(t *testing.T) {
	body := bytes.NewBufferString(`{"code": "def ", "cursorPosition": 4, "language": "python"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/autocomplete", body)
	req.Header.Set("Content-Type", "application/json")
	newAutocompleteRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp AutocompleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Suggestion)
	assert.NotEmpty(t, resp.AllSuggestions)
	assert.Equal(t, resp.AllSuggestions[0], resp.Suggestion)
}

func TestSuggest_EmptyCodeIsValid(t *testing.T) {
	// code 为空字符串是合法请求，不能被 binding 拒掉
	body := bytes.NewBufferString(`{"code": "", "cursorPosition": 0, "language": "python"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/autocomplete", body)
	req.Header.Set("Content-Type", "application/json")
	newAutocompleteRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp AutocompleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "", resp.Suggestion)
	assert.Equal(t, []string{}, resp.AllSuggestions)
}

func TestSuggest_MissingLanguageRejected(t *testing.T) {
	body := bytes.NewBufferString(`{"code": "def ", "cursorPosition": 4}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/autocomplete", body)
	req.Header.Set("Content-Type", "application/json")
	newAutocompleteRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggest_UnknownLanguageYieldsEmptyList(t *testing.T) {
	body := bytes.NewBufferString(`{"code": "def ", "cursorPosition": 4, "language": "cobol"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/autocomplete", body)
	req.Header.Set("Content-Type", "application/json")
	newAutocompleteRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"suggestion": "", "allSuggestions": []}`, w.Body.String())
}
