package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SupersessionLatestRequest = "latest-request"
	SupersessionLastResolved  = "last-resolved"
)

type Config struct {
	App         AppConfig
	OpenWeather OpenWeatherConfig
	Weather     WeatherConfig
	Redis       RedisConfig
	Theme       ThemeConfig
	Form        FormConfig
	API         APIConfig
	HealthCheck HealthCheckConfig
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Env             string        `mapstructure:"env"`
	LogLevel        string        `mapstructure:"log_level"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type OpenWeatherConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	IconBaseURL string `mapstructure:"icon_base_url"`
	Units       string `mapstructure:"units"`
}

type WeatherConfig struct {
	// Supersession is either "latest-request" or "last-resolved".
	Supersession string `mapstructure:"supersession"`
}

// RedisConfig is optional: an empty Addr keeps preferences in memory.
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ThemeConfig struct {
	// PrefersColorScheme feeds the ambient signal: "dark", "light" or empty
	// when the platform gives no hint.
	PrefersColorScheme string `mapstructure:"prefers_color_scheme"`
}

type FormConfig struct {
	AckDelay time.Duration `mapstructure:"ack_delay"`
}

// A zero SessionSweepInterval leaves eviction to request-time checks.
type APIConfig struct {
	BasePath             string        `mapstructure:"base_path"`
	CorsAllowedOrigins   []string      `mapstructure:"cors_allowed_origins"`
	SessionCookie        string        `mapstructure:"session_cookie"`
	SessionTTL           time.Duration `mapstructure:"session_ttl"`
	SessionSweepInterval time.Duration `mapstructure:"session_sweep_interval"`
}

type HealthCheckConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	APITimeout   time.Duration `mapstructure:"api_timeout"`
	RedisTimeout time.Duration `mapstructure:"redis_timeout"`
}

func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/weather-dashboard/")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "weather-dashboard")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.shutdown_timeout", "15s")

	v.SetDefault("openweather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("openweather.icon_base_url", "https://openweathermap.org/img/wn")
	v.SetDefault("openweather.units", "metric")

	v.SetDefault("weather.supersession", SupersessionLatestRequest)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "weather-dashboard:")
	v.SetDefault("redis.timeout", "3s")

	v.SetDefault("theme.prefers_color_scheme", "")

	v.SetDefault("form.ack_delay", "1s")

	v.SetDefault("api.base_path", "/api/v1")
	v.SetDefault("api.cors_allowed_origins", []string{"*"})
	v.SetDefault("api.session_cookie", "session_id")
	v.SetDefault("api.session_ttl", "24h")
	v.SetDefault("api.session_sweep_interval", "10m")

	v.SetDefault("healthcheck.enabled", true)
	v.SetDefault("healthcheck.api_timeout", "5s")
	v.SetDefault("healthcheck.redis_timeout", "2s")
}

func overrideFromEnv(v *viper.Viper) {
	if apiKey := os.Getenv("WEATHER_API_KEY"); apiKey != "" {
		v.Set("openweather.api_key", apiKey)
	}
	if baseURL := os.Getenv("OPENWEATHER_BASE_URL"); baseURL != "" {
		v.Set("openweather.base_url", baseURL)
	}
	if iconURL := os.Getenv("OPENWEATHER_ICON_BASE_URL"); iconURL != "" {
		v.Set("openweather.icon_base_url", iconURL)
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		v.Set("redis.addr", addr)
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		v.Set("redis.password", password)
	}

	if scheme := os.Getenv("THEME_PREFERS_COLOR_SCHEME"); scheme != "" {
		v.Set("theme.prefers_color_scheme", scheme)
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		originList := strings.Split(origins, ",")
		for i, origin := range originList {
			originList[i] = strings.TrimSpace(origin)
		}
		v.Set("api.cors_allowed_origins", originList)
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		v.Set("app.env", env)
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		v.Set("app.log_level", logLevel)
	}
}

func validateConfig(cfg *Config) error {
	if cfg.OpenWeather.APIKey == "" {
		return fmt.Errorf("OpenWeather API key must not be empty")
	}
	if cfg.OpenWeather.BaseURL == "" {
		return fmt.Errorf("OpenWeather base URL must not be empty")
	}
	if cfg.OpenWeather.Units != "metric" {
		return fmt.Errorf("OpenWeather units must be metric, got %q", cfg.OpenWeather.Units)
	}

	switch cfg.Weather.Supersession {
	case SupersessionLatestRequest, SupersessionLastResolved:
	default:
		return fmt.Errorf("unknown weather supersession mode %q", cfg.Weather.Supersession)
	}

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		return fmt.Errorf("app port must be between 1 and 65535")
	}
	if cfg.Form.AckDelay < 0 {
		return fmt.Errorf("form acknowledgment delay must not be negative")
	}
	if cfg.API.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if cfg.API.SessionSweepInterval != 0 && cfg.API.SessionSweepInterval < time.Second {
		return fmt.Errorf("session sweep interval must be zero or at least one second")
	}

	return nil
}
