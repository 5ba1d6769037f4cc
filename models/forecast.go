package models

// ForecastDay is the summary of a single forecast day
type ForecastDay struct {
	Day         string  `json:"day"`         // weekday name
	Date        string  `json:"date"`        // e.g. "Oct 14"
	Icon        string  `json:"icon"`        // icon code or URL
	Description string  `json:"description"` // short text description
	TempMax     float64 `json:"temp_max"`    // °C
	TempMin     float64 `json:"temp_min"`    // °C
	Humidity    float64 `json:"humidity"`    // percentage
	WindSpeed   float64 `json:"wind_speed"`  // km/h
}

// ForecastData is an ordered multi-day forecast from a provider
type ForecastData struct {
	Provider string        `json:"provider"`
	City     string        `json:"city"`
	Days     []ForecastDay `json:"days"`
}
