package weatherapi

import (
	"context"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

// MaxFreeDays is how many forecast days the free tier returns
const MaxFreeDays = 3

// FetchForecast gets a daily forecast from WeatherAPI.com
func (w *WeatherAPISource) FetchForecast(ctx context.Context, city string, days int) (models.ForecastData, error) {
	if days <= 0 {
		return models.ForecastData{Provider: w.Name(), City: city}, nil
	}
	if days > MaxFreeDays {
		days = MaxFreeDays
	}

	forecastResp, err := w.fetch(ctx, city, days)
	if err != nil {
		return models.ForecastData{}, err
	}

	forecastData := models.ForecastData{
		Provider: w.Name(),
		City:     forecastResp.Location.Name,
		Days:     make([]models.ForecastDay, 0, len(forecastResp.Forecast.ForecastDay)),
	}
	if forecastData.City == "" {
		forecastData.City = city
	}

	for _, fd := range forecastResp.Forecast.ForecastDay {
		date, err := time.Parse("2006-01-02", fd.Date)
		if err != nil {
			continue
		}
		forecastData.Days = append(forecastData.Days, models.ForecastDay{
			Day:         date.Weekday().String(),
			Date:        date.Format("Jan 2"),
			Icon:        fd.Day.Condition.Icon,
			Description: datasource.Capitalize(fd.Day.Condition.Text),
			TempMax:     datasource.Round1(fd.Day.MaxTempC),
			TempMin:     datasource.Round1(fd.Day.MinTempC),
			Humidity:    fd.Day.AvgHumidity,
			WindSpeed:   datasource.Round1(fd.Day.MaxWindKph),
		})
		if len(forecastData.Days) == days {
			break
		}
	}

	return forecastData, nil
}
