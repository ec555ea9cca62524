package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
	"github.com/k-shtanenko/weather-dashboard/internal/domain/ports"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

// ThemePreference is the single accessor for the process-wide theme. The
// store, signal and applier may each be nil; a missing collaborator is treated
// as unavailable.
type ThemePreference struct {
	store   ports.PreferenceStore
	signal  ports.AmbientSignal
	applier ports.ThemeApplier
	logger  logger.Logger

	mu          sync.Mutex
	mode        entities.ThemeMode
	initialized bool
}

func NewThemePreference(store ports.PreferenceStore, signal ports.AmbientSignal, applier ports.ThemeApplier, log logger.Logger) *ThemePreference {
	return &ThemePreference{
		store:   store,
		signal:  signal,
		applier: applier,
		logger:  logger.Component(log, "theme_preference"),
		mode:    entities.ThemeLight,
	}
}

// Init resolves the initial mode (persisted value, then ambient signal, then
// light) and applies it. Later calls return the resolved mode without
// touching storage or re-applying the attribute.
func (p *ThemePreference) Init(ctx context.Context) entities.ThemeMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initLocked(ctx)
	return p.mode
}

// Toggle flips the mode, persists it and applies it. A storage failure is
// returned but the mode still flips.
func (p *ThemePreference) Toggle(ctx context.Context) (entities.ThemeMode, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.initLocked(ctx)
	p.mode = p.mode.Toggled()

	var persistErr error
	if p.store != nil {
		if err := p.store.Set(ctx, entities.ThemeStorageKey, p.mode.String()); err != nil {
			p.logger.Warnf("Failed to persist theme %q: %v", p.mode, err)
			persistErr = fmt.Errorf("persist theme: %w", err)
		}
	}

	p.apply(p.mode)
	p.logger.Infof("Theme toggled to %s", p.mode)
	return p.mode, persistErr
}

// Current reports the mode and whether Init has completed.
func (p *ThemePreference) Current() (entities.ThemeMode, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode, p.initialized
}

func (p *ThemePreference) initLocked(ctx context.Context) {
	if p.initialized {
		return
	}
	p.mode = p.resolve(ctx)
	p.initialized = true
	p.apply(p.mode)
	p.logger.Infof("Initial theme resolved to %s", p.mode)
}

func (p *ThemePreference) resolve(ctx context.Context) entities.ThemeMode {
	if mode, ok := p.persisted(ctx); ok {
		return mode
	}

	if p.signal == nil {
		return entities.ThemeLight
	}
	dark, err := p.signal.PrefersDark(ctx)
	if err != nil {
		if !errors.Is(err, entities.ErrSignalUnavailable) {
			p.logger.Warnf("Ambient preference query failed: %v", err)
		}
		return entities.ThemeLight
	}
	if dark {
		return entities.ThemeDark
	}
	return entities.ThemeLight
}

func (p *ThemePreference) persisted(ctx context.Context) (entities.ThemeMode, bool) {
	if p.store == nil {
		return "", false
	}
	value, err := p.store.Get(ctx, entities.ThemeStorageKey)
	if err != nil {
		if !errors.Is(err, entities.ErrNotFound) {
			p.logger.Warnf("Theme storage unavailable, falling back to ambient preference: %v", err)
		}
		return "", false
	}
	mode, err := entities.ParseThemeMode(value)
	if err != nil {
		p.logger.Warnf("Ignoring persisted theme: %v", err)
		return "", false
	}
	return mode, true
}

func (p *ThemePreference) apply(mode entities.ThemeMode) {
	if p.applier != nil {
		p.applier.Apply(mode)
	}
}
