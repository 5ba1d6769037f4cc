package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/models"
)

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"clear sky":        "Clear sky",
		"scattered CLOUDS": "Scattered clouds",
		"  light rain ":    "Light rain",
		"éclaircies":       "Éclaircies",
	}
	for in, want := range tests {
		assert.Equal(t, want, Capitalize(in), "input %q", in)
	}
}

func TestUnitHelpers(t *testing.T) {
	assert.Equal(t, 20.2, Round1(20.15000001))
	assert.Equal(t, -3.5, Round1(-3.46))
	assert.Equal(t, 18.7, MPSToKPH(5.2))
	assert.Equal(t, 0.0, MPSToKPH(0))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"openWeatherMap": {"enabled": true, "apiKey": "owm-key"},
		"unsplash": {"enabled": false},
		"provider": "openweathermap"
	}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.OpenWeatherMap.Enabled)
	assert.Equal(t, "owm-key", cfg.OpenWeatherMap.APIKey)
	assert.Equal(t, 5, cfg.ForecastDays)
	assert.Equal(t, "dashboard.db", cfg.DatabasePath)
	assert.Equal(t, FallbackBackgroundURL, cfg.BackgroundFallback())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"provider":`), 0o600))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvWeatherAPIKey, "wapi-env")
	t.Setenv(EnvUnsplashKey, "unsplash-env")
	t.Setenv(EnvOpenWeatherMapKey, "")

	cfg := DefaultConfig()
	cfg.Provider = ProviderWeatherAPI
	cfg.ApplyEnv()

	assert.False(t, cfg.OpenWeatherMap.Enabled)
	assert.True(t, cfg.WeatherAPI.Enabled)
	assert.Equal(t, "wapi-env", cfg.WeatherAPI.APIKey)
	assert.True(t, cfg.Unsplash.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, cfg.Validate(), ErrNoProvider)

	cfg.OpenWeatherMap.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg.OpenWeatherMap.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "darksky"
	assert.Error(t, cfg.Validate())
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "Client-ID abc", r.Header.Get("Authorization"))
			w.Write([]byte(`{"name":"Paris"}`))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"city not found"}`))
		default:
			w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	header := http.Header{"Authorization": []string{"Client-ID abc"}}
	require.NoError(t, GetJSON(context.Background(), srv.Client(), srv.URL+"/ok", header, &out))
	assert.Equal(t, "Paris", out.Name)

	err := GetJSON(context.Background(), srv.Client(), srv.URL+"/missing", nil, &out)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Contains(t, statusErr.Body, "city not found")

	assert.Error(t, GetJSON(context.Background(), srv.Client(), srv.URL+"/garbage", nil, &out))
}

type countingProvider struct {
	weather, forecast int
}

func (c *countingProvider) Name() string { return "Counting" }

func (c *countingProvider) GetWeather(_ context.Context, city string) (models.WeatherData, error) {
	c.weather++
	return models.WeatherData{City: city}, nil
}

func (c *countingProvider) FetchForecast(_ context.Context, city string, _ int) (models.ForecastData, error) {
	c.forecast++
	return models.ForecastData{City: city}, nil
}

func TestRateLimitedProvider(t *testing.T) {
	inner := &countingProvider{}
	p := NewRateLimitedProvider(inner, 0.001, 0.001, 1)
	assert.Equal(t, "Counting [Rate Limited]", p.Name())

	data, err := p.GetWeather(context.Background(), "Rome")
	require.NoError(t, err)
	assert.Equal(t, "Rome", data.City)

	_, err = p.FetchForecast(context.Background(), "Rome", 3)
	require.NoError(t, err)

	// the burst is spent, so the next call would wait far longer than the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = p.GetWeather(ctx, "Rome")
	assert.Error(t, err)
	assert.Equal(t, 1, inner.weather)
	assert.Equal(t, 1, inner.forecast)
}

type stubBackground struct{}

func (stubBackground) Name() string { return "Stub" }

func (stubBackground) FetchBackground(_ context.Context, city, _ string) (models.Background, error) {
	return models.Background{ImageURL: "https://img/" + city}, nil
}

func TestRateLimitedBackgroundSource(t *testing.T) {
	src := NewRateLimitedBackgroundSource(stubBackground{}, 10, 2)
	bg, err := src.FetchBackground(context.Background(), "Oslo", "Snow")
	require.NoError(t, err)
	assert.Equal(t, "https://img/Oslo", bg.ImageURL)
	assert.Equal(t, "Stub [Rate Limited]", src.Name())
}
