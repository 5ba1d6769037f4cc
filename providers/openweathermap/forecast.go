package openweathermap

import (
	"context"
	"math"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

// OpenWeatherMapForecastResponse represents the 5 day / 3 hour forecast response
type OpenWeatherMapForecastResponse struct {
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
	List []ForecastStep `json:"list"`
}

// ForecastStep is one 3-hour entry of the forecast response
type ForecastStep struct {
	Dt   int64 `json:"dt"`
	Main struct {
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// FetchForecast gets a daily forecast from OpenWeatherMap. The free tier only
// offers 3-hour steps for 5 days, so the steps are folded into days.
func (o *OpenWeatherMapSource) FetchForecast(ctx context.Context, city string, days int) (models.ForecastData, error) {
	var forecastResp OpenWeatherMapForecastResponse
	if err := o.get(ctx, "forecast", city, &forecastResp); err != nil {
		return models.ForecastData{}, err
	}

	name := forecastResp.City.Name
	if name == "" {
		name = city
	}

	zone := time.FixedZone("", forecastResp.City.Timezone)
	return models.ForecastData{
		Provider: o.Name(),
		City:     name,
		Days:     Aggregate(forecastResp.List, zone, o.now().In(zone), days),
	}, nil
}

type dayAcc struct {
	date              time.Time
	max, min          float64
	humidity, wind    float64
	n                 int
	icon, description string
	noonDistance      time.Duration
}

// Aggregate folds 3-hour steps into at most days daily summaries, in the
// city's local time. The day of now comes first when it still has steps.
// Each day keeps the highest max, the lowest min, the mean humidity and wind,
// and the condition of the step closest to local noon.
func Aggregate(steps []ForecastStep, zone *time.Location, now time.Time, days int) []models.ForecastDay {
	if days <= 0 {
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, zone)
	var order []*dayAcc
	byDate := make(map[time.Time]*dayAcc)

	for _, step := range steps {
		t := time.Unix(step.Dt, 0).In(zone)
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, zone)
		if date.Before(today) {
			continue
		}

		acc, ok := byDate[date]
		if !ok {
			if len(order) == days {
				continue
			}
			acc = &dayAcc{
				date:         date,
				max:          math.Inf(-1),
				min:          math.Inf(1),
				noonDistance: math.MaxInt64,
			}
			byDate[date] = acc
			order = append(order, acc)
		}

		acc.max = math.Max(acc.max, step.Main.TempMax)
		acc.min = math.Min(acc.min, step.Main.TempMin)
		acc.humidity += step.Main.Humidity
		acc.wind += step.Wind.Speed
		acc.n++

		d := t.Sub(date.Add(12 * time.Hour))
		if d < 0 {
			d = -d
		}
		if d < acc.noonDistance && len(step.Weather) > 0 {
			acc.noonDistance = d
			acc.icon = step.Weather[0].Icon
			acc.description = step.Weather[0].Description
		}
	}

	out := make([]models.ForecastDay, 0, len(order))
	for _, acc := range order {
		icon := acc.icon
		if icon == "" {
			icon = "01d"
		}
		out = append(out, models.ForecastDay{
			Day:         acc.date.Weekday().String(),
			Date:        acc.date.Format("Jan 2"),
			Icon:        icon,
			Description: datasource.Capitalize(acc.description),
			TempMax:     datasource.Round1(acc.max),
			TempMin:     datasource.Round1(acc.min),
			Humidity:    math.Round(acc.humidity / float64(acc.n)),
			WindSpeed:   datasource.MPSToKPH(acc.wind / float64(acc.n)),
		})
	}
	return out
}
