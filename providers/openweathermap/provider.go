package openweathermap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

// DefaultBaseURL is the OpenWeatherMap 2.5 API root
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherMapSource fetches current weather and forecasts from OpenWeatherMap
type OpenWeatherMapSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// Ensure OpenWeatherMapSource implements both datasource interfaces
var _ datasource.Provider = (*OpenWeatherMapSource)(nil)

// Option configures an OpenWeatherMapSource
type Option func(*OpenWeatherMapSource)

// WithBaseURL points the source at another API root
func WithBaseURL(baseURL string) Option {
	return func(o *OpenWeatherMapSource) { o.baseURL = baseURL }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(o *OpenWeatherMapSource) { o.client = client }
}

// WithNow replaces the clock used to pick forecast days
func WithNow(now func() time.Time) Option {
	return func(o *OpenWeatherMapSource) { o.now = now }
}

// NewOpenWeatherMapSource creates a new OpenWeatherMap data source
func NewOpenWeatherMapSource(apiKey string, opts ...Option) *OpenWeatherMapSource {
	o := &OpenWeatherMapSource{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name returns the name of this data source
func (o *OpenWeatherMapSource) Name() string {
	return "OpenWeatherMap"
}

// OpenWeatherMapResponse represents the current weather response
type OpenWeatherMapResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Visibility float64 `json:"visibility"` // meters
	Name       string  `json:"name"`
	Dt         int64   `json:"dt"`
	Timezone   int     `json:"timezone"` // seconds east of UTC
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

func (o *OpenWeatherMapSource) endpoint(path, city string) string {
	return fmt.Sprintf("%s/%s?q=%s&appid=%s&units=metric",
		o.baseURL, path, url.QueryEscape(city), url.QueryEscape(o.apiKey))
}

// get fetches and decodes one endpoint, mapping 404 to ErrCityNotFound
func (o *OpenWeatherMapSource) get(ctx context.Context, path, city string, v any) error {
	err := datasource.GetJSON(ctx, o.client, o.endpoint(path, city), nil, v)
	var statusErr *datasource.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", datasource.ErrCityNotFound, city)
	}
	return err
}

// GetWeather fetches current weather for a city
func (o *OpenWeatherMapSource) GetWeather(ctx context.Context, city string) (models.WeatherData, error) {
	var owmResp OpenWeatherMapResponse
	if err := o.get(ctx, "weather", city, &owmResp); err != nil {
		return models.WeatherData{}, err
	}

	zone := time.FixedZone("", owmResp.Timezone)
	data := models.WeatherData{
		Provider:    o.Name(),
		City:        owmResp.Name,
		Country:     owmResp.Sys.Country,
		Temperature: datasource.Round1(owmResp.Main.Temp),
		FeelsLike:   datasource.Round1(owmResp.Main.FeelsLike),
		Humidity:    owmResp.Main.Humidity,
		WindSpeed:   datasource.MPSToKPH(owmResp.Wind.Speed),
		Pressure:    owmResp.Main.Pressure,
		Visibility:  owmResp.Visibility / 1000,
		Icon:        "01d",
		ObservedAt:  time.Unix(owmResp.Dt, 0).In(zone),
	}
	if data.City == "" {
		data.City = city
	}

	if len(owmResp.Weather) > 0 {
		data.Description = datasource.Capitalize(owmResp.Weather[0].Description)
		if owmResp.Weather[0].Icon != "" {
			data.Icon = owmResp.Weather[0].Icon
		}
	}
	if owmResp.Sys.Sunrise != 0 {
		data.Sunrise = time.Unix(owmResp.Sys.Sunrise, 0).In(zone)
	}
	if owmResp.Sys.Sunset != 0 {
		data.Sunset = time.Unix(owmResp.Sys.Sunset, 0).In(zone)
	}

	return data, nil
}
