package weatherapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

// DefaultBaseURL is the WeatherAPI.com v1 API root
const DefaultBaseURL = "https://api.weatherapi.com/v1"

// errCodeNoLocation is WeatherAPI's error code for "No matching location found"
const errCodeNoLocation = 1006

// WeatherAPISource fetches current weather and forecasts from WeatherAPI.com
type WeatherAPISource struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Ensure WeatherAPISource implements both datasource interfaces
var _ datasource.Provider = (*WeatherAPISource)(nil)

// Option configures a WeatherAPISource
type Option func(*WeatherAPISource)

// WithBaseURL points the source at another API root
func WithBaseURL(baseURL string) Option {
	return func(w *WeatherAPISource) { w.baseURL = baseURL }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(w *WeatherAPISource) { w.client = client }
}

// NewWeatherAPISource creates a new WeatherAPI data source
func NewWeatherAPISource(apiKey string, opts ...Option) *WeatherAPISource {
	w := &WeatherAPISource{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name returns the name of this data source
func (w *WeatherAPISource) Name() string {
	return "WeatherAPI"
}

type condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// WeatherAPIResponse represents the forecast.json response, which also carries current conditions
type WeatherAPIResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
		TzID    string `json:"tz_id"`
	} `json:"location"`
	Current struct {
		TempC            float64   `json:"temp_c"`
		FeelsLikeC       float64   `json:"feelslike_c"`
		Humidity         float64   `json:"humidity"`
		WindKph          float64   `json:"wind_kph"`
		PressureMb       float64   `json:"pressure_mb"`
		VisKm            float64   `json:"vis_km"`
		Condition        condition `json:"condition"`
		LastUpdatedEpoch int64     `json:"last_updated_epoch"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC    float64   `json:"maxtemp_c"`
				MinTempC    float64   `json:"mintemp_c"`
				MaxWindKph  float64   `json:"maxwind_kph"`
				AvgHumidity float64   `json:"avghumidity"`
				Condition   condition `json:"condition"`
			} `json:"day"`
			Astro struct {
				Sunrise string `json:"sunrise"`
				Sunset  string `json:"sunset"`
			} `json:"astro"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(body string, v any) bool {
	return json.Unmarshal([]byte(body), v) == nil
}

// fetch calls forecast.json for days days, mapping unknown locations to ErrCityNotFound
func (w *WeatherAPISource) fetch(ctx context.Context, city string, days int) (WeatherAPIResponse, error) {
	apiURL := fmt.Sprintf("%s/forecast.json?key=%s&q=%s&days=%d&aqi=no&alerts=no",
		w.baseURL, url.QueryEscape(w.apiKey), url.QueryEscape(city), days)

	var resp WeatherAPIResponse
	err := datasource.GetJSON(ctx, w.client, apiURL, nil, &resp)

	var statusErr *datasource.StatusError
	if errors.As(err, &statusErr) {
		var body errorResponse
		if statusErr.Code == http.StatusNotFound || (decode(statusErr.Body, &body) && body.Error.Code == errCodeNoLocation) {
			return resp, fmt.Errorf("%w: %s", datasource.ErrCityNotFound, city)
		}
	}
	return resp, err
}

// GetWeather fetches current weather for a city
func (w *WeatherAPISource) GetWeather(ctx context.Context, city string) (models.WeatherData, error) {
	wapiResp, err := w.fetch(ctx, city, 1)
	if err != nil {
		return models.WeatherData{}, err
	}

	loc, err := time.LoadLocation(wapiResp.Location.TzID)
	if err != nil {
		loc = time.UTC
	}

	data := models.WeatherData{
		Provider:    w.Name(),
		City:        wapiResp.Location.Name,
		Country:     wapiResp.Location.Country,
		Temperature: datasource.Round1(wapiResp.Current.TempC),
		FeelsLike:   datasource.Round1(wapiResp.Current.FeelsLikeC),
		Humidity:    wapiResp.Current.Humidity,
		WindSpeed:   datasource.Round1(wapiResp.Current.WindKph),
		Pressure:    wapiResp.Current.PressureMb,
		Visibility:  wapiResp.Current.VisKm,
		Description: datasource.Capitalize(wapiResp.Current.Condition.Text),
		Icon:        wapiResp.Current.Condition.Icon,
		ObservedAt:  time.Unix(wapiResp.Current.LastUpdatedEpoch, 0).In(loc),
	}
	if data.City == "" {
		data.City = city
	}

	// Astro times are local clock readings like "06:42 AM"
	if len(wapiResp.Forecast.ForecastDay) > 0 {
		day := wapiResp.Forecast.ForecastDay[0]
		data.Sunrise = astroTime(day.Date, day.Astro.Sunrise, loc)
		data.Sunset = astroTime(day.Date, day.Astro.Sunset, loc)
	}

	return data, nil
}

func astroTime(date, clock string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation("2006-01-02 03:04 PM", date+" "+clock, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
