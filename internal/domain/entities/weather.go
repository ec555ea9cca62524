package entities

import (
	"strings"
)

// WeatherQuery is built on each submit and never persisted.
type WeatherQuery struct {
	CityName string `json:"city_name"`
}

func NewWeatherQuery(input string) (WeatherQuery, error) {
	q := WeatherQuery{CityName: strings.TrimSpace(input)}
	if err := q.Validate(); err != nil {
		return WeatherQuery{}, err
	}
	return q, nil
}

func (q WeatherQuery) Validate() error {
	if q.CityName == "" {
		return ErrEmptyCityName
	}
	return nil
}

// WeatherResult is the normalized provider response.
type WeatherResult struct {
	LocationName string  `json:"location_name"`
	CountryCode  string  `json:"country_code"`
	TemperatureC int     `json:"temperature_c"`
	FeelsLikeC   int     `json:"feels_like_c"`
	Description  string  `json:"description"`
	HumidityPct  int     `json:"humidity_pct"`
	WindSpeedMps float64 `json:"wind_speed_mps"`
	VisibilityKm float64 `json:"visibility_km"`
	PressureHPa  float64 `json:"pressure_hpa"`
	IconID       string  `json:"icon_id"`
}

// Validate rejects results that a well-formed provider response cannot
// produce.
func (w *WeatherResult) Validate() error {
	if w.LocationName == "" {
		return ErrInvalidLocationName
	}
	if w.CountryCode == "" {
		return ErrInvalidCountryCode
	}
	if w.HumidityPct < 0 || w.HumidityPct > 100 {
		return ErrInvalidHumidity
	}
	if w.WindSpeedMps < 0 {
		return ErrInvalidWindSpeed
	}
	if w.VisibilityKm < 0 {
		return ErrInvalidVisibility
	}
	return nil
}

var (
	ErrEmptyCityName       = ValidationError{Field: "city_name", Reason: "must not be empty"}
	ErrInvalidLocationName = ValidationError{Field: "location_name", Reason: "must not be empty"}
	ErrInvalidCountryCode  = ValidationError{Field: "country_code", Reason: "must not be empty"}
	ErrMissingMeasurements = ValidationError{Field: "main", Reason: "must be present"}
	ErrMissingConditions   = ValidationError{Field: "weather", Reason: "must contain at least one condition"}
	ErrInvalidHumidity     = ValidationError{Field: "humidity_pct", Reason: "must be between 0 and 100"}
	ErrInvalidWindSpeed    = ValidationError{Field: "wind_speed_mps", Reason: "must not be negative"}
	ErrInvalidVisibility   = ValidationError{Field: "visibility_km", Reason: "must not be negative"}
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
