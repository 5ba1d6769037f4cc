package datasource

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Environment variables that override the API keys of the config file
const (
	EnvOpenWeatherMapKey = "OPENWEATHERMAP_API_KEY"
	EnvWeatherAPIKey     = "WEATHERAPI_KEY"
	EnvUnsplashKey       = "UNSPLASH_ACCESS_KEY"
)

// Provider names accepted by Config.Provider
const (
	ProviderOpenWeatherMap = "openweathermap"
	ProviderWeatherAPI     = "weatherapi"
)

// FallbackBackgroundURL is shown when no background picture could be found
const FallbackBackgroundURL = "https://images.pexels.com/photos/209831/pexels-photo-209831.jpeg?cs=srgb&dl=pexels-pixabay-209831.jpg&fm=jpg"

// ErrNoProvider is returned by Validate when no weather provider is usable
var ErrNoProvider = errors.New("no weather provider enabled")

// APIConfig enables one remote API
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"apiKey"`
}

// Config represents the application configuration
type Config struct {
	// API provider configurations
	OpenWeatherMap APIConfig `json:"openWeatherMap"`
	WeatherAPI     APIConfig `json:"weatherAPI"`
	Unsplash       APIConfig `json:"unsplash"`

	// Provider picks which enabled weather API serves searches
	Provider string `json:"provider"`

	// ForecastDays is how many days the forecast section shows
	ForecastDays int `json:"forecastDays"`

	// DatabasePath is the SQLite file for settings and history, empty for memory only
	DatabasePath string `json:"databasePath"`

	// FallbackBackground replaces FallbackBackgroundURL when set
	FallbackBackground string `json:"fallbackBackground"`
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	if config.ForecastDays <= 0 {
		config.ForecastDays = 5
	}
	return config, nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderOpenWeatherMap,
		ForecastDays: 5,
		DatabasePath: "dashboard.db",
	}
}

// ApplyEnv overrides API keys with the environment. A key found in the
// environment also enables its API.
func (c *Config) ApplyEnv() {
	apply := func(target *APIConfig, env string) {
		if v := os.Getenv(env); v != "" {
			target.APIKey = v
			target.Enabled = true
		}
	}
	apply(&c.OpenWeatherMap, EnvOpenWeatherMapKey)
	apply(&c.WeatherAPI, EnvWeatherAPIKey)
	apply(&c.Unsplash, EnvUnsplashKey)
}

// Validate checks that the chosen provider is enabled and has a key
func (c *Config) Validate() error {
	var api APIConfig
	switch c.Provider {
	case ProviderOpenWeatherMap:
		api = c.OpenWeatherMap
	case ProviderWeatherAPI:
		api = c.WeatherAPI
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	if !api.Enabled {
		return fmt.Errorf("%w: %s is not enabled", ErrNoProvider, c.Provider)
	}
	if api.APIKey == "" {
		return fmt.Errorf("%s is enabled but no API key provided", c.Provider)
	}
	if c.Unsplash.Enabled && c.Unsplash.APIKey == "" {
		return errors.New("unsplash is enabled but no access key provided")
	}
	return nil
}

// BackgroundFallback returns the picture used when no background was found
func (c *Config) BackgroundFallback() string {
	if c.FallbackBackground != "" {
		return c.FallbackBackground
	}
	return FallbackBackgroundURL
}
