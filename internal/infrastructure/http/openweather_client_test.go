package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
	"github.com/k-shtanenko/weather-dashboard/internal/domain/ports"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

func londonResponse() map[string]interface{} {
	return map[string]interface{}{
		"name": "London",
		"sys": map[string]interface{}{
			"country": "GB",
		},
		"main": map[string]interface{}{
			"temp":       15.6,
			"feels_like": 14.9,
			"humidity":   70,
			"pressure":   1012,
		},
		"weather": []map[string]interface{}{
			{"description": "light rain", "icon": "10d"},
		},
		"wind": map[string]interface{}{
			"speed": 3.5,
		},
		"visibility": 8000,
	}
}

func newTestClient(serverURL string) *OpenWeatherClient {
	return NewOpenWeatherClient(serverURL, "https://icons.test/img/wn", "test-key", "metric", logger.Discard())
}

func TestOpenWeatherClient_FetchWeather(t *testing.T) {
	t.Run("maps London response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/weather", r.URL.Path)
			assert.Equal(t, "London", r.URL.Query().Get("q"))
			assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
			assert.Equal(t, "metric", r.URL.Query().Get("units"))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(londonResponse())
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).FetchWeather(context.Background(), "London")

		require.NoError(t, err)
		assert.Equal(t, entities.WeatherResult{
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
		}, result)
	})

	t.Run("escapes city name", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "São Paulo & Co", r.URL.Query().Get("q"))
			json.NewEncoder(w).Encode(londonResponse())
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchWeather(context.Background(), "São Paulo & Co")
		require.NoError(t, err)
	})

	t.Run("city not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cod":     "404",
				"message": "city not found",
			})
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchWeather(context.Background(), "Atlantis")

		var fetchErr *entities.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, entities.FetchErrorNotFound, fetchErr.Kind)
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
		assert.Contains(t, err.Error(), "API returned status 404")
		assert.Equal(t, "Failed to fetch weather data. Please try again.", fetchErr.UserMessage())
	})

	t.Run("any non-2xx status is not found", func(t *testing.T) {
		for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusMovedPermanently} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))

			_, err := newTestClient(server.URL).FetchWeather(context.Background(), "London")
			server.Close()

			var fetchErr *entities.FetchError
			require.True(t, errors.As(err, &fetchErr), "status %d", status)
			assert.Equal(t, entities.FetchErrorNotFound, fetchErr.Kind, "status %d", status)
		}
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("invalid json"))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchWeather(context.Background(), "London")

		var fetchErr *entities.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, entities.FetchErrorNotFound, fetchErr.Kind)
		assert.Contains(t, err.Error(), "failed to decode response")
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		serverURL := server.URL
		server.Close()

		_, err := newTestClient(serverURL).FetchWeather(context.Background(), "London")

		var fetchErr *entities.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, entities.FetchErrorNetwork, fetchErr.Kind)
		assert.Equal(t, entities.MessageFetchFailed, fetchErr.UserMessage())
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(londonResponse())
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestClient(server.URL).FetchWeather(ctx, "London")

		var fetchErr *entities.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, entities.FetchErrorNetwork, fetchErr.Kind)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestOpenWeatherClient_Rounding(t *testing.T) {
	testCases := []struct {
		name       string
		temp       float64
		feelsLike  float64
		visibility float64
		wantTemp   int
		wantFeels  int
		wantVisKm  float64
	}{
		{"half rounds up", 2.5, 0.5, 10000, 3, 1, 10},
		{"negative half rounds away from zero", -2.5, -0.5, 1234, -3, -1, 1.234},
		{"below half rounds down", 15.49, 14.4, 999, 15, 14, 0.999},
		{"whole values", 20, 19, 0, 20, 19, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body := londonResponse()
				body["main"].(map[string]interface{})["temp"] = tc.temp
				body["main"].(map[string]interface{})["feels_like"] = tc.feelsLike
				body["visibility"] = tc.visibility
				json.NewEncoder(w).Encode(body)
			}))
			defer server.Close()

			result, err := newTestClient(server.URL).FetchWeather(context.Background(), "London")

			require.NoError(t, err)
			assert.Equal(t, tc.wantTemp, result.TemperatureC)
			assert.Equal(t, tc.wantFeels, result.FeelsLikeC)
			assert.Equal(t, tc.visibility/1000, result.VisibilityKm)
			assert.InDelta(t, tc.wantVisKm, result.VisibilityKm, 1e-12)
		})
	}
}

func TestOpenWeatherClient_FetchWeather_MalformedBody(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"empty object", `{}`, entities.ErrMissingMeasurements},
		{"null", `null`, entities.ErrMissingMeasurements},
		{"empty weather array", `{
			"name": "Test City",
			"sys": {"country": "RU"},
			"main": {"temp": 20.5, "feels_like": 19.8, "pressure": 1013, "humidity": 65},
			"weather": [],
			"visibility": 10000,
			"wind": {"speed": 5.2}
		}`, entities.ErrMissingConditions},
		{"name only with empty weather", `{"name":"X","weather":[]}`, entities.ErrMissingMeasurements},
		{"missing sys", `{
			"name": "Test City",
			"main": {"temp": 20.5, "feels_like": 19.8, "pressure": 1013, "humidity": 65},
			"weather": [{"description": "clear sky", "icon": "01d"}]
		}`, entities.ErrInvalidCountryCode},
		{"missing name", `{
			"sys": {"country": "RU"},
			"main": {"temp": 20.5, "feels_like": 19.8, "pressure": 1013, "humidity": 65},
			"weather": [{"description": "clear sky", "icon": "01d"}]
		}`, entities.ErrInvalidLocationName},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			result, err := newTestClient(server.URL).FetchWeather(context.Background(), "Test City")

			var fetchErr *entities.FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, entities.FetchErrorNotFound, fetchErr.Kind)
			assert.Equal(t, http.StatusOK, fetchErr.StatusCode)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, entities.MessageFetchFailed, fetchErr.UserMessage())
			assert.Equal(t, entities.WeatherResult{}, result)
		})
	}
}

func TestOpenWeatherClient_FetchWeather_MultipleWeatherItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"name": "Test City 2",
			"sys": {"country": "US"},
			"main": {"temp": 25.0, "feels_like": 24.5, "pressure": 1015, "humidity": 70},
			"weather": [
				{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"},
				{"id": 801, "main": "Clouds", "description": "few clouds", "icon": "02d"}
			],
			"visibility": 15000,
			"wind": {"speed": 3.5, "deg": 90}
		}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).FetchWeather(context.Background(), "Test City 2")

	require.NoError(t, err)
	assert.Equal(t, "clear sky", result.Description)
	assert.Equal(t, "01d", result.IconID)
	assert.Equal(t, 15.0, result.VisibilityKm)
}

func TestOpenWeatherClient_IconURL(t *testing.T) {
	client := newTestClient("https://api.test")

	assert.Equal(t, "https://icons.test/img/wn/10d@2x.png", client.IconURL("10d"))
	assert.Equal(t, "", client.IconURL(""))

	defaults := NewOpenWeatherClient("", "", "key", "", nil)
	assert.Equal(t, "https://openweathermap.org/img/wn/01n@2x.png", defaults.IconURL("01n"))
}

func TestOpenWeatherClient_HealthCheck(t *testing.T) {
	t.Run("successful health check", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "London", r.URL.Query().Get("q"))
			json.NewEncoder(w).Encode(londonResponse())
		}))
		defer server.Close()

		assert.NoError(t, newTestClient(server.URL).HealthCheck(context.Background()))
	})

	t.Run("health check fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		err := newTestClient(server.URL).HealthCheck(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "API health check failed with status")
	})
}

func TestOpenWeatherClientFactory_CreateClient(t *testing.T) {
	factory := NewOpenWeatherClientFactory(logger.Discard())

	client := factory.CreateClient("https://api.test.com", "", "test-key", "metric")

	assert.NotNil(t, client)
	assert.Implements(t, (*ports.WeatherClient)(nil), client)
}

func TestOpenWeatherClient_InterfaceImplementation(t *testing.T) {
	var _ ports.WeatherClient = (*OpenWeatherClient)(nil)
	var _ ports.WeatherClientFactory = (*OpenWeatherClientFactory)(nil)
}
