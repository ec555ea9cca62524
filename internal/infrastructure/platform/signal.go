package platform

import (
	"context"
	"strings"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
)

// ConfiguredSignal answers the "prefers dark appearance" query from a
// configured color scheme. An empty or unknown scheme means the platform
// cannot answer.
type ConfiguredSignal struct {
	scheme string
}

func NewConfiguredSignal(scheme string) *ConfiguredSignal {
	return &ConfiguredSignal{scheme: strings.ToLower(strings.TrimSpace(scheme))}
}

func (s *ConfiguredSignal) PrefersDark(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	switch s.scheme {
	case "dark":
		return true, nil
	case "light", "no-preference":
		return false, nil
	}
	return false, entities.ErrSignalUnavailable
}
