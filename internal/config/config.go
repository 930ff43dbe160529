package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultAPIURL is the camera service endpoint used when none is configured.
const DefaultAPIURL = "https://api-dev.mcp.camera/api/v1/mcp"

const (
	defaultConfigDir  = "~/.mcp-camera"
	defaultConfigName = "config.json"
)

// Configuration is the persisted credential and endpoint record.
type Configuration struct {
	APIKey      *string   `json:"apiKey"`
	APIURL      string    `json:"apiUrl"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Default returns a configuration with no key and the built-in endpoint.
func Default() Configuration {
	return Configuration{APIURL: DefaultAPIURL}
}

// Key returns the API key, or "" when unset.
func (c Configuration) Key() string {
	if c.APIKey == nil {
		return ""
	}
	return *c.APIKey
}

// HasKey reports whether a non-empty API key is set.
func (c Configuration) HasKey() bool {
	return strings.TrimSpace(c.Key()) != ""
}

// WithKey returns a copy of c holding key.
func (c Configuration) WithKey(key string) Configuration {
	k := key
	c.APIKey = &k
	return c
}

// Endpoint returns APIURL, falling back to DefaultAPIURL when blank.
func (c Configuration) Endpoint() string {
	if u := strings.TrimSpace(c.APIURL); u != "" {
		return u
	}
	return DefaultAPIURL
}

// ValidateEndpoint checks that raw is an absolute http or https URL.
func ValidateEndpoint(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("parse api url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("parse api url %q: missing host", raw)
	}
	return nil
}

// Store reads and writes the configuration file. It holds no cached copy;
// callers own the Configuration value they load.
type Store struct {
	path string
	log  zerolog.Logger
	now  func() time.Time
}

// NewStore resolves path (blank uses ~/.mcp-camera/config.json).
func NewStore(path string, logger zerolog.Logger) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: resolved, log: logger, now: time.Now}, nil
}

// DefaultDir returns the expanded per-user configuration directory.
func DefaultDir() (string, error) {
	return expandPath(defaultConfigDir)
}

// Path returns the resolved config file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the configuration. A missing or unreadable file yields
// defaults; failures other than "not found" are logged.
func (s *Store) Load() Configuration {
	cfg := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("read config failed, using defaults")
		}
		return cfg
	}

	var raw Configuration
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("parse config failed, using defaults")
		return cfg
	}

	cfg.APIURL = raw.Endpoint()
	if err := ValidateEndpoint(cfg.APIURL); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("invalid api url in config, using default")
		cfg.APIURL = DefaultAPIURL
	}
	cfg.LastUpdated = raw.LastUpdated
	if raw.HasKey() {
		cfg.APIKey = raw.APIKey
	}
	return cfg
}

// Save writes cfg wholesale, stamping LastUpdated, and returns the stamped copy.
func (s *Store) Save(cfg Configuration) (Configuration, error) {
	cfg.APIURL = cfg.Endpoint()
	cfg.LastUpdated = s.now().UTC()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return cfg, fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return cfg, fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return cfg, fmt.Errorf("write config: %w", err)
	}
	s.log.Debug().Str("path", s.path).Msg("config saved")
	return cfg, nil
}

// SetAPIKey stores key in cfg and persists immediately.
func (s *Store) SetAPIKey(cfg Configuration, key string) (Configuration, error) {
	return s.Save(cfg.WithKey(strings.TrimSpace(key)))
}

// SetAPIURL replaces the endpoint and persists immediately. A blank url
// restores the default endpoint.
func (s *Store) SetAPIURL(cfg Configuration, url string) (Configuration, error) {
	cfg.APIURL = strings.TrimSpace(url)
	return s.Save(cfg)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigDir + "/" + defaultConfigName)
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
