package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activities-be/internal/domain"
	apperrors "activities-be/pkg/errors"
)

func TestHTTPFetcherOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed/my-quiz", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "1",
			"title": "My Quiz",
			"slug": "my-quiz",
			"contentType": "quiz",
			"contentData": {"questions":[{"question":"q","options":["a","b"],"correct":0}],"settings":{}}
		}`))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, srv.Client())
	act, err := fetcher.FetchActivity(context.Background(), "my-quiz")

	require.NoError(t, err)
	assert.Equal(t, "My Quiz", act.Title)
	assert.Equal(t, domain.ContentTypeQuiz, act.ContentType)
}

func TestHTTPFetcherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, srv.Client())
	_, err := fetcher.FetchActivity(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestHTTPFetcherServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, srv.Client())
	_, err := fetcher.FetchActivity(context.Background(), "slug")

	require.Error(t, err)
	// A backend failure must not masquerade as an absent activity.
	assert.False(t, apperrors.IsNotFound(err))
}

func TestHTTPFetcherUnknownContentTypeFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"1","title":"t","slug":"s","contentType":"html","contentData":{}}`))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.URL, srv.Client())
	act, err := fetcher.FetchActivity(context.Background(), "s")

	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypeGeneric, act.ContentType)
}

func TestHTTPFetcherHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewHTTPFetcher(srv.URL, srv.Client())
	_, err := fetcher.FetchActivity(ctx, "slug")

	assert.Error(t, err)
}
