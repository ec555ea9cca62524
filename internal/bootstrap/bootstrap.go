package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/k-shtanenko/weather-dashboard/config"
	"github.com/k-shtanenko/weather-dashboard/internal/application"
	"github.com/k-shtanenko/weather-dashboard/internal/domain/ports"
	"github.com/k-shtanenko/weather-dashboard/internal/infrastructure/api"
	weatherhttp "github.com/k-shtanenko/weather-dashboard/internal/infrastructure/http"
	"github.com/k-shtanenko/weather-dashboard/internal/infrastructure/platform"
	"github.com/k-shtanenko/weather-dashboard/internal/infrastructure/scheduler"
	"github.com/k-shtanenko/weather-dashboard/internal/infrastructure/storage"
	"github.com/k-shtanenko/weather-dashboard/internal/infrastructure/validation"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

// sessionSweepTimeout bounds one in-memory sweep run.
const sessionSweepTimeout = 5 * time.Second

// Version is overridden at build time with -ldflags "-X ...bootstrap.Version=".
var Version = "dev"

type Bootstrap struct {
	config *config.Config
	logger logger.Logger
}

type dependencies struct {
	client    ports.WeatherClient
	store     ports.PreferenceStore
	theme     *application.ThemePreference
	document  *platform.DocumentAttribute
	sessions  *api.SessionStore
	server    *api.APIServer
	scheduler ports.Scheduler
}

func NewBootstrap() (*Bootstrap, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewBootstrapWithConfig(cfg), nil
}

func NewBootstrapWithConfig(cfg *config.Config) *Bootstrap {
	log := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("service", cfg.App.Name)
	return &Bootstrap{
		config: cfg,
		logger: log,
	}
}

func (b *Bootstrap) Run() error {
	b.logger.Info("Starting weather-dashboard service")
	b.PrintConfigInfo()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChan)
	go func() {
		select {
		case sig := <-signalChan:
			b.logger.Infof("Received signal: %v. Shutting down...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	deps, err := b.initDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer b.closeStore(deps.store)

	if b.config.HealthCheck.Enabled {
		b.logger.Info("Performing initial health checks...")
		healthChecker := NewHealthChecker(
			deps.client,
			deps.store,
			b.config.HealthCheck.APITimeout,
			b.config.HealthCheck.RedisTimeout,
			b.logger,
		)
		if err := healthChecker.CheckAll(ctx); err != nil {
			return fmt.Errorf("initial health checks failed: %w", err)
		}
	}

	mode := deps.theme.Init(ctx)
	b.logger.Infof("Theme initialized: %s", mode)

	if err := b.scheduleHousekeeping(ctx, deps); err != nil {
		return err
	}
	defer deps.scheduler.Stop()

	if err := deps.server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	<-ctx.Done()

	b.logger.Info("Stopping service...")
	if err := deps.server.Stop(context.Background()); err != nil {
		b.logger.Errorf("API server shutdown: %v", err)
	}

	b.logger.Info("Service stopped gracefully")
	return nil
}

func (b *Bootstrap) initDependencies(ctx context.Context) (*dependencies, error) {
	b.logger.Info("Initializing dependencies...")

	clientFactory := weatherhttp.NewOpenWeatherClientFactory(b.logger)
	client := clientFactory.CreateClient(
		b.config.OpenWeather.BaseURL,
		b.config.OpenWeather.IconBaseURL,
		b.config.OpenWeather.APIKey,
		b.config.OpenWeather.Units,
	)
	b.logger.Info("OpenWeather client initialized")

	store, err := b.newPreferenceStore(ctx)
	if err != nil {
		return nil, err
	}

	document := platform.NewDocumentAttribute(b.logger)
	ambient := platform.NewConfiguredSignal(b.config.Theme.PrefersColorScheme)
	theme := application.NewThemePreference(store, ambient, document, b.logger)

	validator := validation.NewPersonalInfoValidator(b.logger)

	var vmOpts []application.WeatherViewModelOption
	if b.config.Weather.Supersession == config.SupersessionLastResolved {
		vmOpts = append(vmOpts, application.WithLastResolvedWins())
	}

	sessions := api.NewSessionStore(
		b.config.API.SessionCookie,
		b.config.API.SessionTTL,
		func() (*application.WeatherViewModel, *application.PersonalInfoForm) {
			return application.NewWeatherViewModel(client, b.logger, vmOpts...),
				application.NewPersonalInfoForm(validator, b.config.Form.AckDelay, b.logger)
		},
		b.logger,
	)

	handler := api.NewAPIHandler(theme, document, map[string]api.HealthCheckFunc{
		"preference_store": store.HealthCheck,
	}, Version, b.logger)
	middleware := api.NewMiddleware(b.config.API.CorsAllowedOrigins, b.logger)
	server := api.NewAPIServer(handler, middleware, sessions, b.config, b.logger)
	b.logger.Infof("API server initialized at %s", b.config.API.BasePath)

	return &dependencies{
		client:    client,
		store:     store,
		theme:     theme,
		document:  document,
		sessions:  sessions,
		server:    server,
		scheduler: scheduler.NewCronScheduler(sessionSweepTimeout, b.logger),
	}, nil
}

func (b *Bootstrap) scheduleHousekeeping(ctx context.Context, deps *dependencies) error {
	interval := b.config.API.SessionSweepInterval
	if interval <= 0 {
		b.logger.Info("Session sweep disabled, idle sessions are evicted on access")
		return nil
	}
	if err := deps.scheduler.Schedule(ctx, interval, deps.sessions.Sweep); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	return nil
}

func (b *Bootstrap) newPreferenceStore(ctx context.Context) (ports.PreferenceStore, error) {
	if b.config.Redis.Addr == "" {
		b.logger.Info("Redis address not set, theme preference kept in memory")
		return storage.NewMemoryPreferenceStore(), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store, err := storage.NewRedisPreferenceStore(storage.RedisOptions{
		Addr:      b.config.Redis.Addr,
		Password:  b.config.Redis.Password,
		DB:        b.config.Redis.DB,
		KeyPrefix: b.config.Redis.KeyPrefix,
		Timeout:   b.config.Redis.Timeout,
	}, b.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis preference store: %w", err)
	}
	b.logger.Infof("Redis preference store initialized at %s", b.config.Redis.Addr)
	return store, nil
}

func (b *Bootstrap) closeStore(store ports.PreferenceStore) {
	if err := store.Close(); err != nil {
		b.logger.Warnf("Failed to close preference store: %v", err)
	}
}

func (b *Bootstrap) PrintConfigInfo() {
	b.logger.Infof("Service Name: %s", b.config.App.Name)
	b.logger.Infof("Environment: %s", b.config.App.Env)
	b.logger.Infof("Log level: %s", b.config.App.LogLevel)
	b.logger.Infof("OpenWeather API Base URL: %s", b.config.OpenWeather.BaseURL)
	b.logger.Infof("Weather supersession: %s", b.config.Weather.Supersession)
	b.logger.Infof("Redis: %s", valueOr(b.config.Redis.Addr, "disabled"))
	b.logger.Infof("Ambient color scheme: %s", valueOr(b.config.Theme.PrefersColorScheme, "unset"))
	b.logger.Infof("Listening port: %d", b.config.App.Port)
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
