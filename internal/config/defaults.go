package config

import "time"

// Default configuration values.
const (
	DefaultPort           = 8765
	DefaultLanguage       = "python"
	DefaultLogFormat      = "text"
	DefaultRequestTimeout = 2 * time.Minute
	DefaultSessionTTL     = 30 * time.Minute
	DefaultSessionSecret  = "codepad-dev-secret-change-in-production" //nolint:gosec
	DefaultSweepInterval  = time.Minute
	ConfigFileName        = "codepad.yaml"
	ConfigFileNameAlt     = "codepad.yml"
	LegacyAPIURLEnv       = "NEXT_PUBLIC_API_URL"
)

// ApplyDefaults fills unset values of c.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = DefaultLanguage
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.UI == nil {
		c.UI = DefaultUIConfig()
	}
	ApplyUIDefaults(c.UI)
}

// ApplyUIDefaults fills unset values of ui.
func ApplyUIDefaults(ui *UIConfig) {
	if ui == nil {
		return
	}
	if ui.Port == 0 {
		ui.Port = DefaultPort
	}
	if ui.SessionTTL == 0 {
		ui.SessionTTL = DefaultSessionTTL
	}
	if ui.SessionSecret == "" {
		ui.SessionSecret = DefaultSessionSecret
	}
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:          DefaultPort,
		AutoOpen:      true,
		Dev:           false,
		SessionSecret: DefaultSessionSecret,
		SessionTTL:    DefaultSessionTTL,
	}
}

// Default returns a fully populated default configuration.
func Default() *Config {
	c := &Config{RequestTimeout: DefaultRequestTimeout}
	ApplyDefaults(c)
	return c
}
