package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/k-shtanenko/weather-dashboard/config"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

type API interface {
	Start() error
	Stop(ctx context.Context) error
}

type APIServer struct {
	server     *http.Server
	router     *gin.Engine
	handler    *APIHandler
	middleware *Middleware
	sessions   *SessionStore
	config     *config.Config
	logger     logger.Logger
}

func NewAPIServer(handler *APIHandler, middleware *Middleware, sessions *SessionStore, cfg *config.Config, log logger.Logger) *APIServer {
	gin.SetMode(gin.ReleaseMode)
	if cfg.App.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	s := &APIServer{
		router:     gin.New(),
		handler:    handler,
		middleware: middleware,
		sessions:   sessions,
		config:     cfg,
		logger:     logger.Component(log, "api_server"),
	}
	s.setupRoutes()
	return s
}

func (s *APIServer) setupRoutes() {
	// Engine-level so preflight requests reaching NoRoute still get CORS headers.
	s.router.Use(s.middleware.Recovery())
	s.router.Use(s.middleware.RequestID())
	s.router.Use(s.middleware.Logging())
	s.router.Use(s.middleware.CORS())

	api := s.router.Group(s.config.API.BasePath)

	api.GET("/health", s.handler.HealthCheck)

	weather := api.Group("/weather", s.sessions.Middleware())
	{
		weather.GET("", s.handler.GetWeather)
		weather.POST("", s.handler.SubmitWeatherQuery)
	}

	personalInfo := api.Group("/personal-info", s.sessions.Middleware())
	{
		personalInfo.GET("", s.handler.GetPersonalInfo)
		personalInfo.POST("", s.handler.SubmitPersonalInfo)
		personalInfo.POST("/validate", s.handler.ValidatePersonalInfo)
	}

	theme := api.Group("/theme")
	{
		theme.GET("", s.handler.GetTheme)
		theme.POST("/toggle", s.handler.ToggleTheme)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": fmt.Sprintf("Route %s not found", c.Request.URL.Path),
		})
	})
}

// Router exposes the configured engine, mainly for httptest.
func (s *APIServer) Router() http.Handler {
	return s.router
}

func (s *APIServer) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.App.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Infof("Starting API server on port %d", s.config.App.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	return nil
}

func (s *APIServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("Shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.App.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	s.logger.Info("API server stopped")
	return nil
}
