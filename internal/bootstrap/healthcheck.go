package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/ports"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

type HealthCheck interface {
	CheckAll(ctx context.Context) error
}

// HealthChecker runs each startup check once with its own timeout. Weather
// lookups are never retried, so neither are the checks that guard them.
type HealthChecker struct {
	client ports.WeatherClient
	store  ports.PreferenceStore
	logger logger.Logger
	config struct {
		apiTimeout   time.Duration
		storeTimeout time.Duration
	}
}

func NewHealthChecker(client ports.WeatherClient, store ports.PreferenceStore, apiTimeout, storeTimeout time.Duration, log logger.Logger) *HealthChecker {
	h := &HealthChecker{
		client: client,
		store:  store,
		logger: logger.Component(log, "health_checker"),
	}
	h.config.apiTimeout = apiTimeout
	h.config.storeTimeout = storeTimeout
	return h
}

func (h *HealthChecker) CheckAll(ctx context.Context) error {
	h.logger.Info("Starting health checks for all dependencies")

	if h.client != nil {
		if err := h.check(ctx, h.client.HealthCheck, "OpenWeather API", h.config.apiTimeout); err != nil {
			return fmt.Errorf("OpenWeather API health check failed: %w", err)
		}
	}

	if h.store != nil {
		if err := h.check(ctx, h.store.HealthCheck, "Preference store", h.config.storeTimeout); err != nil {
			return fmt.Errorf("preference store health check failed: %w", err)
		}
	}

	h.logger.Info("All health checks passed successfully")
	return nil
}

func (h *HealthChecker) check(ctx context.Context, checkFunc func(context.Context) error, serviceName string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	checkCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := checkFunc(checkCtx); err != nil {
		h.logger.Warnf("%s health check failed: %v", serviceName, err)
		return err
	}

	h.logger.Infof("%s health check passed", serviceName)
	return nil
}
