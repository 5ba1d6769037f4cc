package models

import (
	"fmt"
	"strings"
	"time"
)

// WeatherData represents current conditions for a city, already normalized to
// the units the dashboard renders (°C, km/h, hPa, km)
type WeatherData struct {
	Provider    string    `json:"provider"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature float64   `json:"temperature"` // °C, one decimal
	FeelsLike   float64   `json:"feels_like"`  // °C, one decimal
	Description string    `json:"description"`
	Humidity    float64   `json:"humidity"`   // percentage
	WindSpeed   float64   `json:"wind_speed"` // km/h, one decimal
	Pressure    float64   `json:"pressure"`   // hPa
	Icon        string    `json:"icon"`       // OpenWeatherMap style icon code or URL
	Visibility  float64   `json:"visibility"` // km, 0 when unknown
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Background is a picture to show behind the weather panel
type Background struct {
	ImageURL     string `json:"image_url"`
	Photographer string `json:"photographer"`
}

// IconURL turns a provider icon into a fetchable URL. OpenWeatherMap returns
// bare codes like "04d", WeatherAPI returns protocol-relative URLs.
func IconURL(icon string) string {
	switch {
	case icon == "":
		return ""
	case strings.HasPrefix(icon, "//"):
		return "https:" + icon
	case strings.Contains(icon, "/"):
		return icon
	default:
		return fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", icon)
	}
}
