package ports

import (
	"context"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
)

// WeatherClient performs one provider call per FetchWeather. Failures are
// returned as *entities.FetchError.
type WeatherClient interface {
	FetchWeather(ctx context.Context, cityName string) (entities.WeatherResult, error)
	IconURL(iconID string) string
	HealthCheck(ctx context.Context) error
}

type WeatherClientFactory interface {
	CreateClient(baseURL, iconBaseURL, apiKey, units string) WeatherClient
}
