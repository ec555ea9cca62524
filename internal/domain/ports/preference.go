package ports

import (
	"context"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
)

// PreferenceStore is the persistent key/value storage behind the theme.
// Get returns entities.ErrNotFound when the key is absent.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// AmbientSignal reports the platform's "prefers dark appearance" hint.
// entities.ErrSignalUnavailable means the platform cannot answer.
type AmbientSignal interface {
	PrefersDark(ctx context.Context) (bool, error)
}

// ThemeApplier sets the global visual attribute for a mode.
type ThemeApplier interface {
	Apply(mode entities.ThemeMode)
}
