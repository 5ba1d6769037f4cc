package unsplash

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

// DefaultBaseURL is the Unsplash API root
const DefaultBaseURL = "https://api.unsplash.com"

// UnsplashSource finds city pictures on Unsplash
type UnsplashSource struct {
	accessKey string
	baseURL   string
	client    *http.Client
}

var _ datasource.BackgroundSource = (*UnsplashSource)(nil)

// Option configures an UnsplashSource
type Option func(*UnsplashSource)

// WithBaseURL points the source at another API root
func WithBaseURL(baseURL string) Option {
	return func(u *UnsplashSource) { u.baseURL = baseURL }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(u *UnsplashSource) { u.client = client }
}

// NewUnsplashSource creates a background source using an Unsplash access key
func NewUnsplashSource(accessKey string, opts ...Option) *UnsplashSource {
	u := &UnsplashSource{
		accessKey: accessKey,
		baseURL:   DefaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Name returns the name of this source
func (u *UnsplashSource) Name() string {
	return "Unsplash"
}

// SearchResponse is the part of search/photos the dashboard reads
type SearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

// Query builds the search terms for a city and an optional weather description
func Query(city, description string) string {
	terms := []string{strings.TrimSpace(city)}
	if d := strings.TrimSpace(description); d != "" {
		terms = append(terms, d)
	}
	return strings.Join(append(terms, "cityscape"), " ")
}

// FetchBackground returns the first landscape picture matching the city
func (u *UnsplashSource) FetchBackground(ctx context.Context, city, description string) (models.Background, error) {
	params := url.Values{}
	params.Set("query", Query(city, description))
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")
	apiURL := fmt.Sprintf("%s/search/photos?%s", u.baseURL, params.Encode())

	header := http.Header{}
	header.Set("Authorization", "Client-ID "+u.accessKey)
	header.Set("Accept-Version", "v1")

	var resp SearchResponse
	if err := datasource.GetJSON(ctx, u.client, apiURL, header, &resp); err != nil {
		return models.Background{}, fmt.Errorf("failed to search photos: %w", err)
	}

	if len(resp.Results) == 0 || resp.Results[0].URLs.Regular == "" {
		return models.Background{}, fmt.Errorf("%w for %s", datasource.ErrNoImages, city)
	}

	return models.Background{
		ImageURL:     resp.Results[0].URLs.Regular,
		Photographer: resp.Results[0].User.Name,
	}, nil
}
