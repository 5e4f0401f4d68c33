package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetScriptServesJavaScript(t *testing.T) {
	c := testContainer(t, &stubActivityService{}, nil)
	h := NewSDKHandler(c)

	rec := httptest.NewRecorder()
	h.GetScript(rec, httptest.NewRequest(http.MethodGet, "/sdk/activities.js", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	body := rec.Body.String()
	assert.Contains(t, body, "data-html-activity")
	assert.Contains(t, body, "https://activities.example.com")
}

func TestGetScriptHonorsETag(t *testing.T) {
	c := testContainer(t, &stubActivityService{}, nil)
	h := NewSDKHandler(c)

	rec := httptest.NewRecorder()
	h.GetScript(rec, httptest.NewRequest(http.MethodGet, "/sdk/activities.js", nil))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/sdk/activities.js", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.GetScript(rec, req)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}
