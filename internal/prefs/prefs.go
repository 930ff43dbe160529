// Package prefs handles camview user preferences persistence.
// Preferences are stored in ~/.config/camview/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for camview.
type Prefs struct {
	Theme          string `toml:"theme"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	DefaultRadius  int    `toml:"default_radius"`
	LogLevel       string `toml:"log_level"`
}

const (
	defaultPrefsPath      = "~/.config/camview/prefs.toml"
	defaultTheme          = "Nightfox"
	defaultTimeoutSeconds = 30
	defaultRadius         = 50
	defaultLogLevel       = "info"
)

// Default returns the built-in preferences.
func Default() Prefs {
	return Prefs{
		Theme:          defaultTheme,
		TimeoutSeconds: defaultTimeoutSeconds,
		DefaultRadius:  defaultRadius,
		LogLevel:       defaultLogLevel,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Timeout returns the HTTP request timeout.
func (p Prefs) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default()
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default()
		}
		return Default() // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Default() // Graceful degradation
	}

	p := Default()
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Default() // Graceful degradation
	}
	return p.normalized()
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// normalized replaces blank or out-of-range values with defaults.
func (p Prefs) normalized() Prefs {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if p.TimeoutSeconds <= 0 {
		p.TimeoutSeconds = defaultTimeoutSeconds
	}
	if p.DefaultRadius < 10 || p.DefaultRadius > 500 {
		p.DefaultRadius = defaultRadius
	}
	p.LogLevel = strings.ToLower(strings.TrimSpace(p.LogLevel))
	if p.LogLevel == "" {
		p.LogLevel = defaultLogLevel
	}
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
