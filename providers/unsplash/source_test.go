package unsplash

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/datasource"
)

func TestQuery(t *testing.T) {
	assert.Equal(t, "Paris cityscape", Query(" Paris ", ""))
	assert.Equal(t, "Paris Light rain cityscape", Query("Paris", "Light rain"))
}

func TestFetchBackground(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "Client-ID access", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		assert.Equal(t, "landscape", r.URL.Query().Get("orientation"))

		if r.URL.Query().Get("query") == "Nowhere cityscape" {
			w.Write([]byte(`{"total":0,"results":[]}`))
			return
		}
		assert.Equal(t, "Lisbon Clear sky cityscape", r.URL.Query().Get("query"))
		w.Write([]byte(`{"results":[{"urls":{"regular":"https://images.example/lisbon.jpg"},"user":{"name":"Ana"}}]}`))
	}))
	defer srv.Close()

	src := NewUnsplashSource("access", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	bg, err := src.FetchBackground(context.Background(), "Lisbon", "Clear sky")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/lisbon.jpg", bg.ImageURL)
	assert.Equal(t, "Ana", bg.Photographer)

	_, err = src.FetchBackground(context.Background(), "Nowhere", "")
	assert.True(t, errors.Is(err, datasource.ErrNoImages))
}

func TestFetchBackgroundHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	src := NewUnsplashSource("access", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := src.FetchBackground(context.Background(), "Lisbon", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, datasource.ErrNoImages))
}
