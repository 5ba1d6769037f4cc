package datasource

import (
	"context"
	"errors"

	"weather-dashboard/models"
)

// ErrCityNotFound is returned when a provider does not know the requested city
var ErrCityNotFound = errors.New("city not found")

// ErrNoImages is returned by a BackgroundSource that found no picture for a city
var ErrNoImages = errors.New("no images found")

// WeatherProvider is an interface for services that can fetch current weather data
type WeatherProvider interface {
	// GetWeather fetches current weather for a city
	GetWeather(ctx context.Context, city string) (models.WeatherData, error)

	// Name returns the provider's name
	Name() string
}

// ForecastSource is an interface for services that can fetch daily forecasts
type ForecastSource interface {
	// FetchForecast fetches one summary per day for the specified number of days
	FetchForecast(ctx context.Context, city string, days int) (models.ForecastData, error)

	// Name returns the source's name
	Name() string
}

// BackgroundSource finds a picture to show behind the weather for a city
type BackgroundSource interface {
	FetchBackground(ctx context.Context, city, description string) (models.Background, error)
	Name() string
}

// Provider is a service that offers both current weather and forecasts
type Provider interface {
	WeatherProvider
	ForecastSource
}
