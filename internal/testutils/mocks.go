package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
)

type MockWeatherClient struct {
	mock.Mock
}

func (m *MockWeatherClient) FetchWeather(ctx context.Context, cityName string) (entities.WeatherResult, error) {
	args := m.Called(ctx, cityName)
	return args.Get(0).(entities.WeatherResult), args.Error(1)
}

func (m *MockWeatherClient) IconURL(iconID string) string {
	if iconID == "" {
		return ""
	}
	return "https://icons.test/" + iconID + "@2x.png"
}

func (m *MockWeatherClient) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPreferenceStore struct {
	mock.Mock
}

func (m *MockPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockPreferenceStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPreferenceStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPreferenceStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockAmbientSignal struct {
	mock.Mock
}

func (m *MockAmbientSignal) PrefersDark(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

type MockThemeApplier struct {
	mock.Mock
}

func (m *MockThemeApplier) Apply(mode entities.ThemeMode) {
	m.Called(mode)
}

type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(values entities.PersonalInfoRecord) entities.FieldErrors {
	args := m.Called(values)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(entities.FieldErrors)
}

// LondonResult is the normalized form of the provider's London sample.
func LondonResult() entities.WeatherResult {
	return entities.WeatherResult{
		LocationName: "London",
		CountryCode:  "GB",
		TemperatureC: 16,
		FeelsLikeC:   15,
		Description:  "light rain",
		HumidityPct:  70,
		WindSpeedMps: 3.5,
		VisibilityKm: 8,
		PressureHPa:  1012,
		IconID:       "10d",
	}
}
