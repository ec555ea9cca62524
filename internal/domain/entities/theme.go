package entities

import "fmt"

type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"

	// ThemeStorageKey is the only key the theme preference touches.
	ThemeStorageKey = "theme"
)

func ParseThemeMode(value string) (ThemeMode, error) {
	switch ThemeMode(value) {
	case ThemeLight, ThemeDark:
		return ThemeMode(value), nil
	}
	return "", fmt.Errorf("unknown theme mode %q", value)
}

func (m ThemeMode) Toggled() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (m ThemeMode) IsDark() bool { return m == ThemeDark }

func (m ThemeMode) String() string { return string(m) }
