package weatherapi

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

const forecastBody = `{
	"location": {"name": "Tokyo", "country": "Japan", "tz_id": "UTC"},
	"current": {
		"temp_c": 18.26, "feelslike_c": 17.04, "humidity": 55, "wind_kph": 12.96,
		"pressure_mb": 1012, "vis_km": 10, "last_updated_epoch": 1709290800,
		"condition": {"text": "partly cloudy", "icon": "//cdn.weatherapi.com/weather/64x64/day/116.png"}
	},
	"forecast": {"forecastday": [
		{"date": "2024-03-01", "day": {"maxtemp_c": 19.44, "mintemp_c": 9.1, "maxwind_kph": 20.16, "avghumidity": 60,
			"condition": {"text": "Sunny", "icon": "//cdn.weatherapi.com/weather/64x64/day/113.png"}},
			"astro": {"sunrise": "06:05 AM", "sunset": "05:41 PM"}},
		{"date": "2024-03-02", "day": {"maxtemp_c": 15, "mintemp_c": 7.5, "maxwind_kph": 11, "avghumidity": 72,
			"condition": {"text": "Patchy rain nearby", "icon": "//cdn.weatherapi.com/weather/64x64/day/176.png"}},
			"astro": {"sunrise": "06:04 AM", "sunset": "05:42 PM"}}
	]}
}`

func newTestServer(t *testing.T, gotDays *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		if gotDays != nil {
			*gotDays = r.URL.Query().Get("days")
		}
		if r.URL.Query().Get("q") == "Atlantis" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
			return
		}
		w.Write([]byte(forecastBody))
	}))
}

func TestGetWeather(t *testing.T) {
	srv := newTestServer(t, nil)
	defer srv.Close()

	src := NewWeatherAPISource("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	data, err := src.GetWeather(context.Background(), "Tokyo")
	require.NoError(t, err)

	assert.Equal(t, "WeatherAPI", data.Provider)
	assert.Equal(t, "Tokyo", data.City)
	assert.Equal(t, "Japan", data.Country)
	assert.Equal(t, 18.3, data.Temperature)
	assert.Equal(t, 17.0, data.FeelsLike)
	assert.Equal(t, 13.0, data.WindSpeed)
	assert.Equal(t, "Partly cloudy", data.Description)
	assert.Equal(t, 10.0, data.Visibility)
	assert.Equal(t, "06:05 AM", data.Sunrise.Format("03:04 PM"))
	assert.Equal(t, "05:41 PM", data.Sunset.Format("03:04 PM"))
}

func TestCityNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	defer srv.Close()

	src := NewWeatherAPISource("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := src.GetWeather(context.Background(), "Atlantis")
	assert.True(t, errors.Is(err, datasource.ErrCityNotFound))

	_, err = src.FetchForecast(context.Background(), "Atlantis", 3)
	assert.True(t, errors.Is(err, datasource.ErrCityNotFound))
}

func TestFetchForecast(t *testing.T) {
	var days string
	srv := newTestServer(t, &days)
	defer srv.Close()

	src := NewWeatherAPISource("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	data, err := src.FetchForecast(context.Background(), "Tokyo", 5)
	require.NoError(t, err)
	assert.Equal(t, "3", days)

	require.Len(t, data.Days, 2)
	assert.Equal(t, "Friday", data.Days[0].Day)
	assert.Equal(t, "Mar 1", data.Days[0].Date)
	assert.Equal(t, 19.4, data.Days[0].TempMax)
	assert.Equal(t, 9.1, data.Days[0].TempMin)
	assert.Equal(t, 20.2, data.Days[0].WindSpeed)
	assert.Equal(t, "Patchy rain nearby", data.Days[1].Description)

	data, err = src.FetchForecast(context.Background(), "Tokyo", 1)
	require.NoError(t, err)
	assert.Len(t, data.Days, 1)
}
