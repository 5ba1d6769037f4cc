package datasource

import (
	"context"
	"fmt"

	"weather-dashboard/models"

	"golang.org/x/time/rate"
)

// RateLimitedWeatherProvider wraps a WeatherProvider with rate limiting
type RateLimitedWeatherProvider struct {
	provider WeatherProvider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedWeatherProvider creates a new rate limited weather provider
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedWeatherProvider(provider WeatherProvider, rps float64, burst int) *RateLimitedWeatherProvider {
	return &RateLimitedWeatherProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// GetWeather fetches weather data, respecting rate limits
func (r *RateLimitedWeatherProvider) GetWeather(ctx context.Context, city string) (models.WeatherData, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.WeatherData{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.GetWeather(ctx, city)
}

// Name returns the provider name
func (r *RateLimitedWeatherProvider) Name() string {
	return r.name
}

// RateLimitedForecastSource wraps a ForecastSource with rate limiting
type RateLimitedForecastSource struct {
	source  ForecastSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedForecastSource creates a new rate limited forecast source
func NewRateLimitedForecastSource(source ForecastSource, rps float64, burst int) *RateLimitedForecastSource {
	return &RateLimitedForecastSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// FetchForecast fetches forecast data, respecting rate limits
func (r *RateLimitedForecastSource) FetchForecast(ctx context.Context, city string, days int) (models.ForecastData, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.ForecastData{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.FetchForecast(ctx, city, days)
}

// Name returns the source name
func (r *RateLimitedForecastSource) Name() string {
	return r.name
}

// RateLimitedBackgroundSource wraps a BackgroundSource with rate limiting
type RateLimitedBackgroundSource struct {
	source  BackgroundSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedBackgroundSource creates a new rate limited background source
func NewRateLimitedBackgroundSource(source BackgroundSource, rps float64, burst int) *RateLimitedBackgroundSource {
	return &RateLimitedBackgroundSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// FetchBackground looks up a picture, respecting rate limits
func (r *RateLimitedBackgroundSource) FetchBackground(ctx context.Context, city, description string) (models.Background, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.Background{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.FetchBackground(ctx, city, description)
}

// Name returns the source name
func (r *RateLimitedBackgroundSource) Name() string {
	return r.name
}

// RateLimitedProvider rate limits both halves of a Provider independently
type RateLimitedProvider struct {
	weather  *RateLimitedWeatherProvider
	forecast *RateLimitedForecastSource
	name     string
}

// NewRateLimitedProvider creates a provider that implements both interfaces with rate limiting
// weatherRPS and forecastRPS are the maximum requests per second for weather and forecast APIs
func NewRateLimitedProvider(provider Provider, weatherRPS, forecastRPS float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		weather:  NewRateLimitedWeatherProvider(provider, weatherRPS, burst),
		forecast: NewRateLimitedForecastSource(provider, forecastRPS, burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// GetWeather implements WeatherProvider interface with rate limiting
func (r *RateLimitedProvider) GetWeather(ctx context.Context, city string) (models.WeatherData, error) {
	return r.weather.GetWeather(ctx, city)
}

// FetchForecast implements ForecastSource interface with rate limiting
func (r *RateLimitedProvider) FetchForecast(ctx context.Context, city string, days int) (models.ForecastData, error) {
	return r.forecast.FetchForecast(ctx, city, days)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

// Verify that our rate limited types implement the required interfaces
var (
	_ WeatherProvider  = (*RateLimitedWeatherProvider)(nil)
	_ ForecastSource   = (*RateLimitedForecastSource)(nil)
	_ BackgroundSource = (*RateLimitedBackgroundSource)(nil)
	_ Provider         = (*RateLimitedProvider)(nil)
)
