package platform

import (
	"sync"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

const DarkClass = "dark"

// DocumentAttribute is the process-wide visual attribute the presentation
// layer renders from. Nothing is set until the first Apply.
type DocumentAttribute struct {
	mu     sync.RWMutex
	mode   entities.ThemeMode
	logger logger.Logger
}

func NewDocumentAttribute(log logger.Logger) *DocumentAttribute {
	return &DocumentAttribute{
		logger: logger.Component(log, "document_attribute"),
	}
}

func (d *DocumentAttribute) Apply(mode entities.ThemeMode) {
	d.mu.Lock()
	d.mode = mode
	d.mu.Unlock()

	d.logger.Debugf("Applied theme attribute %q", mode)
}

// Class returns the root class list entry: "dark" for dark mode, empty
// otherwise.
func (d *DocumentAttribute) Class() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.mode == entities.ThemeDark {
		return DarkClass
	}
	return ""
}
