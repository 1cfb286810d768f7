package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogplatform/internal/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, "Post created", Payload{"post": map[string]string{"id": "1"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, "Post created", body["message"])
	assert.Contains(t, body, "post")
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.Validation("Validation failed", "title is required"), false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Equal(t, []interface{}{"title is required"}, body["errors"])

	rec = httptest.NewRecorder()
	Error(rec, errors.New("pq: connection refused"), false)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "Server error", body["message"])
	assert.NotContains(t, body, "error")

	rec = httptest.NewRecorder()
	Error(rec, errors.New("pq: connection refused"), true)
	assert.Equal(t, "pq: connection refused", decode(t, rec)["error"])
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ Title string }
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Title":"x"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "x", dst.Title)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err := DecodeJSON(r, &dst)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
