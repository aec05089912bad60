// Package prefs holds the process-wide display preferences: interface
// language and color theme. It knows nothing about tasks.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// FileName is the preferences file inside the data directory
const FileName = "prefs.yaml"

type Settings struct {
	Language Language `yaml:"language" json:"language"`
	Theme    Theme    `yaml:"theme" json:"theme"`
}

// Defaults match a fresh install
func Defaults() Settings {
	return Settings{Language: LanguageChinese, Theme: ThemeLight}
}

var (
	mu      sync.RWMutex
	current = Defaults()
	path    string // empty until Init, changes are then kept in memory only
)

// Init loads the preferences file at p and makes it the backing store for
// later changes. A missing file means defaults. Non-empty fields of overrides
// win over the file without being written back.
func Init(p string, overrides Settings) (Settings, error) {
	settings, err := Load(p)
	if err != nil {
		return Settings{}, err
	}

	if overrides.Language != "" {
		lang, err := ParseLanguage(string(overrides.Language))
		if err != nil {
			return Settings{}, err
		}
		settings.Language = lang
	}
	if overrides.Theme != "" {
		theme, err := ParseTheme(string(overrides.Theme))
		if err != nil {
			return Settings{}, err
		}
		settings.Theme = theme
	}

	mu.Lock()
	defer mu.Unlock()
	path = p
	current = settings
	return current, nil
}

// Current returns the active preferences
func Current() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetLanguage switches the interface language and persists it
func SetLanguage(lang string) (Settings, error) {
	parsed, err := ParseLanguage(lang)
	if err != nil {
		return Current(), err
	}
	return update(func(s *Settings) { s.Language = parsed })
}

// SetTheme switches the color theme and persists it
func SetTheme(theme string) (Settings, error) {
	parsed, err := ParseTheme(theme)
	if err != nil {
		return Current(), err
	}
	return update(func(s *Settings) { s.Theme = parsed })
}

// ToggleTheme flips between light and dark
func ToggleTheme() (Settings, error) {
	return update(func(s *Settings) {
		if s.Theme == ThemeDark {
			s.Theme = ThemeLight
		} else {
			s.Theme = ThemeDark
		}
	})
}

// update applies fn and saves the result. The in-memory change is kept even
// when the file cannot be written.
func update(fn func(*Settings)) (Settings, error) {
	mu.Lock()
	defer mu.Unlock()

	fn(&current)
	if path == "" {
		return current, nil
	}
	if err := Save(path, current); err != nil {
		return current, err
	}
	return current, nil
}

func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEnglish:
		return LanguageEnglish, nil
	case LanguageChinese:
		return LanguageChinese, nil
	default:
		return "", fmt.Errorf("invalid language '%s'. Use: en or zh", s)
	}
}

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("invalid theme '%s'. Use: light or dark", s)
	}
}

// Load reads a preferences file. Unknown or missing values fall back to defaults.
func Load(p string) (Settings, error) {
	settings := Defaults()

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("failed to read preferences: %w", err)
	}

	var raw Settings
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Settings{}, fmt.Errorf("failed to parse preferences: %w", err)
	}
	if lang, err := ParseLanguage(string(raw.Language)); err == nil {
		settings.Language = lang
	}
	if theme, err := ParseTheme(string(raw.Theme)); err == nil {
		settings.Theme = theme
	}
	return settings, nil
}

// Save writes settings atomically
func Save(p string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
