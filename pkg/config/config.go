// Package config loads ticketdesk client configuration.
//
// Configuration is read from a single YAML file named by:
//   - the --config flag, or
//   - the TICKETDESK_CONFIG environment variable.
//
// There is no automatic discovery. Without a file the defaults apply. A small
// set of environment variables (TICKETDESK_API_URL, TICKETDESK_LOG_LEVEL)
// override file values so the same file can point at different backends.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"ticketdesk/pkg/model"
	"ticketdesk/pkg/recipe"
)

// Environment variables consulted by Load.
const (
	EnvConfig   = "TICKETDESK_CONFIG"
	EnvAPIURL   = "TICKETDESK_API_URL"
	EnvLogLevel = "TICKETDESK_LOG_LEVEL"
)

// Config is the client configuration.
type Config struct {
	// APIURL is the base URL of the ticket API, e.g. http://localhost:8080/api.
	APIURL string `yaml:"api_url"`

	// Timeout bounds every HTTP request.
	Timeout Duration `yaml:"timeout"`

	// LogFile receives the client's log. The TUI owns the terminal, so
	// logs never go to stdout. Empty disables logging.
	LogFile string `yaml:"log_file"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// PageSizes are the page sizes the list cycles through. The list
	// always starts at model.DefaultPageSize.
	PageSizes []int `yaml:"page_sizes"`

	// Presets are named filters applied from the filter panel.
	Presets []recipe.Recipe `yaml:"presets"`
}

// Duration is a time.Duration that unmarshals from strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		APIURL:    "http://localhost:8080/api",
		Timeout:   Duration(15 * time.Second),
		LogFile:   defaultLogFile(),
		LogLevel:  "info",
		PageSizes: []int{5, model.DefaultPageSize, 25, 50},
	}
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ticketdesk", "ticketdesk.log")
}

// Load reads the file at path, or the file named by TICKETDESK_CONFIG when
// path is empty, then applies environment overrides. With neither set the
// defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_url must be an absolute http(s) URL, got %q", c.APIURL))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative"))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	for _, size := range c.PageSizes {
		if size <= 0 {
			errs = append(errs, fmt.Errorf("page_sizes must be positive, got %d", size))
		}
	}
	seen := make(map[string]bool, len(c.Presets))
	for i, p := range c.Presets {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("presets[%d]: %w", i, err))
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("presets[%d]: duplicate name %q", i, p.Name))
		}
		seen[p.Name] = true
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// PageSizeCycle returns the configured page sizes, always including
// model.DefaultPageSize.
func (c *Config) PageSizeCycle() []int {
	sizes := make([]int, 0, len(c.PageSizes)+1)
	hasDefault := false
	for _, s := range c.PageSizes {
		if s == model.DefaultPageSize {
			hasDefault = true
		}
		sizes = append(sizes, s)
	}
	if !hasDefault {
		sizes = append([]int{model.DefaultPageSize}, sizes...)
	}
	return sizes
}
