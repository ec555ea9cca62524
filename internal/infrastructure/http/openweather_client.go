package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
	"github.com/k-shtanenko/weather-dashboard/internal/domain/ports"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

const (
	DefaultBaseURL     = "https://api.openweathermap.org/data/2.5"
	DefaultIconBaseURL = "https://openweathermap.org/img/wn"
	DefaultUnits       = "metric"

	healthCheckCity = "London"
)

type OpenWeatherClient struct {
	client      *http.Client
	baseURL     string
	iconBaseURL string
	apiKey      string
	units       string
	logger      logger.Logger
}

// NewOpenWeatherClient builds a client without a request timeout: a call
// resolves or fails as the transport and the caller's context decide.
func NewOpenWeatherClient(baseURL, iconBaseURL, apiKey, units string, log logger.Logger) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if iconBaseURL == "" {
		iconBaseURL = DefaultIconBaseURL
	}
	if units == "" {
		units = DefaultUnits
	}

	return &OpenWeatherClient{
		client:      &http.Client{},
		baseURL:     strings.TrimRight(baseURL, "/"),
		iconBaseURL: strings.TrimRight(iconBaseURL, "/"),
		apiKey:      apiKey,
		units:       units,
		logger:      logger.Component(log, "openweather_client"),
	}
}

// WithHTTPClient swaps the underlying transport, mostly for tests.
func (c *OpenWeatherClient) WithHTTPClient(client *http.Client) *OpenWeatherClient {
	c.client = client
	return c
}

type OpenWeatherResponse struct {
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Visibility float64 `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Name string `json:"name"`
}

func (c *OpenWeatherClient) FetchWeather(ctx context.Context, cityName string) (entities.WeatherResult, error) {
	c.logger.Debugf("Fetching weather for city: %s", cityName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.weatherURL(cityName), nil)
	if err != nil {
		return entities.WeatherResult{}, &entities.FetchError{
			Kind: entities.FetchErrorNetwork,
			Err:  fmt.Errorf("failed to create request: %w", err),
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warnf("Weather request for %q failed: %v", cityName, err)
		return entities.WeatherResult{}, &entities.FetchError{
			Kind: entities.FetchErrorNetwork,
			Err:  fmt.Errorf("failed to execute request: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warnf("Provider returned status %d for %q", resp.StatusCode, cityName)
		return entities.WeatherResult{}, &entities.FetchError{
			Kind:       entities.FetchErrorNotFound,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var apiResp OpenWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		kind := entities.FetchErrorNotFound
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			kind = entities.FetchErrorNetwork
		}
		return entities.WeatherResult{}, &entities.FetchError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}

	result, err := convertToResult(&apiResp)
	if err == nil {
		err = result.Validate()
	}
	if err != nil {
		c.logger.Warnf("Provider returned a malformed body for %q: %v", cityName, err)
		return entities.WeatherResult{}, &entities.FetchError{
			Kind:       entities.FetchErrorNotFound,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("malformed response: %w", err),
		}
	}

	c.logger.Debugf("Successfully fetched weather for %s, %s", result.LocationName, result.CountryCode)
	return result, nil
}

func (c *OpenWeatherClient) IconURL(iconID string) string {
	if iconID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s@2x.png", c.iconBaseURL, url.PathEscape(iconID))
}

func (c *OpenWeatherClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.weatherURL(healthCheckCity), nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API health check failed with status: %d", resp.StatusCode)
	}

	c.logger.Debug("OpenWeatherMap API health check passed")
	return nil
}

func (c *OpenWeatherClient) weatherURL(cityName string) string {
	return fmt.Sprintf("%s/weather?q=%s&appid=%s&units=%s",
		c.baseURL, url.QueryEscape(cityName), url.QueryEscape(c.apiKey), url.QueryEscape(c.units))
}

// convertToResult uses the first weather condition; a body without
// measurements or conditions is rejected.
func convertToResult(resp *OpenWeatherResponse) (entities.WeatherResult, error) {
	if resp.Main == nil {
		return entities.WeatherResult{}, entities.ErrMissingMeasurements
	}
	if len(resp.Weather) == 0 {
		return entities.WeatherResult{}, entities.ErrMissingConditions
	}

	return entities.WeatherResult{
		LocationName: resp.Name,
		CountryCode:  resp.Sys.Country,
		TemperatureC: int(math.Round(resp.Main.Temp)),
		FeelsLikeC:   int(math.Round(resp.Main.FeelsLike)),
		Description:  resp.Weather[0].Description,
		HumidityPct:  resp.Main.Humidity,
		WindSpeedMps: resp.Wind.Speed,
		VisibilityKm: resp.Visibility / 1000,
		PressureHPa:  resp.Main.Pressure,
		IconID:       resp.Weather[0].Icon,
	}, nil
}

type OpenWeatherClientFactory struct {
	logger logger.Logger
}

func NewOpenWeatherClientFactory(log logger.Logger) ports.WeatherClientFactory {
	return &OpenWeatherClientFactory{
		logger: log,
	}
}

func (f *OpenWeatherClientFactory) CreateClient(baseURL, iconBaseURL, apiKey, units string) ports.WeatherClient {
	logger.Component(f.logger, "openweather_client_factory").Infof("Creating OpenWeatherClient with baseURL: %s", baseURL)
	return NewOpenWeatherClient(baseURL, iconBaseURL, apiKey, units, f.logger)
}
