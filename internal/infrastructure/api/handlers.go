package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/k-shtanenko/weather-dashboard/internal/application"
	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
	"github.com/k-shtanenko/weather-dashboard/internal/infrastructure/platform"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

type ThemeService interface {
	Init(ctx context.Context) entities.ThemeMode
	Toggle(ctx context.Context) (entities.ThemeMode, error)
	Current() (entities.ThemeMode, bool)
}

// ThemeAttribute reports the presentation attribute the theme was last
// applied as.
type ThemeAttribute interface {
	Class() string
}

type HealthCheckFunc func(ctx context.Context) error

type APIHandler struct {
	theme     ThemeService
	attribute ThemeAttribute
	checks    map[string]HealthCheckFunc
	version   string
	logger    logger.Logger
}

func NewAPIHandler(theme ThemeService, attribute ThemeAttribute, checks map[string]HealthCheckFunc, version string, log logger.Logger) *APIHandler {
	if version == "" {
		version = "dev"
	}
	return &APIHandler{
		theme:     theme,
		attribute: attribute,
		checks:    checks,
		version:   version,
		logger:    logger.Component(log, "api_handler"),
	}
}

type WeatherQueryRequest struct {
	City string `json:"city"`
}

type ValidationResponse struct {
	Valid  bool                 `json:"valid"`
	Errors entities.FieldErrors `json:"errors,omitempty"`
}

type ThemeResponse struct {
	Mode      entities.ThemeMode `json:"mode"`
	Class     string             `json:"class"`
	Persisted *bool              `json:"persisted,omitempty"`
}

type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

type FieldErrorResponse struct {
	ErrorResponse
	Fields entities.FieldErrors `json:"fields"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Time     time.Time         `json:"time"`
	Services map[string]string `json:"services"`
}

func (h *APIHandler) GetWeather(c *gin.Context) {
	sess := sessionFrom(c)
	c.JSON(http.StatusOK, sess.Weather.Snapshot())
}

// SubmitWeatherQuery always answers with the view after the query resolved;
// the status code tells how it resolved.
func (h *APIHandler) SubmitWeatherQuery(c *gin.Context) {
	sess := sessionFrom(c)

	var req WeatherQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	view, err := sess.Weather.SubmitQuery(c.Request.Context(), req.City)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, view)
	case errors.Is(err, entities.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, view)
	case errors.Is(err, entities.ErrSuperseded):
		c.JSON(http.StatusConflict, view)
	case view.State.IsFailed():
		h.logger.WithField("session_id", sess.ID).Warnf("Weather query failed: %v", err)
		c.JSON(http.StatusBadGateway, view)
	default:
		h.respondError(c, http.StatusInternalServerError, fmt.Sprintf("weather query: %v", err))
	}
}

func (h *APIHandler) GetPersonalInfo(c *gin.Context) {
	c.JSON(http.StatusOK, sessionFrom(c).Form.Snapshot())
}

func (h *APIHandler) SubmitPersonalInfo(c *gin.Context) {
	sess := sessionFrom(c)

	var record entities.PersonalInfoRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ack, err := sess.Form.Submit(c.Request.Context(), record)
	if err != nil {
		var fieldErrs entities.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			c.JSON(http.StatusUnprocessableEntity, FieldErrorResponse{
				ErrorResponse: ErrorResponse{
					Error:   http.StatusText(http.StatusUnprocessableEntity),
					Message: fieldErrs.Error(),
					Time:    time.Now(),
				},
				Fields: fieldErrs,
			})
		case errors.Is(err, entities.ErrSubmissionPending):
			h.respondError(c, http.StatusConflict, err.Error())
		default:
			h.respondError(c, http.StatusServiceUnavailable, fmt.Sprintf("submission aborted: %v", err))
		}
		return
	}

	c.JSON(http.StatusOK, ack)
}

func (h *APIHandler) ValidatePersonalInfo(c *gin.Context) {
	sess := sessionFrom(c)

	var record entities.PersonalInfoRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	errs := sess.Form.Validate(record)
	c.JSON(http.StatusOK, ValidationResponse{Valid: len(errs) == 0, Errors: errs})
}

func (h *APIHandler) GetTheme(c *gin.Context) {
	mode := h.theme.Init(c.Request.Context())
	c.JSON(http.StatusOK, ThemeResponse{Mode: mode, Class: h.themeClass(mode)})
}

// ToggleTheme reports a failed write through Persisted; the mode flips either
// way.
func (h *APIHandler) ToggleTheme(c *gin.Context) {
	mode, err := h.theme.Toggle(c.Request.Context())
	if err != nil {
		h.logger.Warnf("Theme toggled without persisting: %v", err)
	}
	persisted := err == nil
	c.JSON(http.StatusOK, ThemeResponse{Mode: mode, Class: h.themeClass(mode), Persisted: &persisted})
}

func (h *APIHandler) themeClass(mode entities.ThemeMode) string {
	if h.attribute != nil {
		return h.attribute.Class()
	}
	if mode.IsDark() {
		return platform.DarkClass
	}
	return ""
}

func (h *APIHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	healthStatus := HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Time:     time.Now(),
		Services: map[string]string{"api": "healthy"},
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			healthStatus.Status = "degraded"
			healthStatus.Services[name] = fmt.Sprintf("unhealthy: %v", err)
			continue
		}
		healthStatus.Services[name] = "healthy"
	}

	if mode, ok := h.theme.Current(); ok {
		healthStatus.Services["theme"] = mode.String()
	}

	c.JSON(http.StatusOK, healthStatus)
}

func (h *APIHandler) respondError(c *gin.Context, status int, message string) {
	h.logger.Errorf("HTTP %d: %s", status, message)
	c.JSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Time:    time.Now(),
	})
}

var _ ThemeService = (*application.ThemePreference)(nil)
