// Package config provides the configuration types for codepad.
// It is decoupled from CLI concerns so the server and the terminal front end
// can share it.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/codepad/internal/language"
)

// Config holds all configuration options.
type Config struct {
	// APIURL is the base URL of the execution service.
	APIURL         string        `koanf:"api_url" yaml:"api_url"`
	RequestTimeout time.Duration `koanf:"request_timeout" yaml:"request_timeout"`
	// DefaultLanguage is the language a new editor starts with.
	DefaultLanguage string    `koanf:"default_language" yaml:"default_language"`
	Verbose         bool      `koanf:"verbose" yaml:"verbose"`
	LogFormat       string    `koanf:"log_format" yaml:"log_format"`
	UI              *UIConfig `koanf:"ui" yaml:"ui"`
}

// UIConfig holds configuration for the browser UI server.
type UIConfig struct {
	Port          int           `koanf:"port" yaml:"port"`
	AutoOpen      bool          `koanf:"auto_open" yaml:"auto_open"`
	Dev           bool          `koanf:"dev" yaml:"dev"`
	SessionSecret string        `koanf:"session_secret" yaml:"session_secret"`
	SessionTTL    time.Duration `koanf:"session_ttl" yaml:"session_ttl"`
}

// Language returns the parsed default language.
func (c *Config) Language() (language.Tag, error) {
	return language.ParseTag(c.DefaultLanguage)
}

// Validate checks if the configuration is valid. The execution URL is
// deliberately not checked: runs against a bad URL fail when they are made.
func (c *Config) Validate() error {
	if _, err := c.Language(); err != nil {
		return fmt.Errorf("default_language: %w", err)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}

	if c.UI != nil {
		if c.UI.Port < 0 || c.UI.Port > 65535 {
			return fmt.Errorf("ui.port out of range: %d", c.UI.Port)
		}
		if c.UI.SessionTTL < 0 {
			return fmt.Errorf("ui.session_ttl must not be negative")
		}
	}
	return nil
}
