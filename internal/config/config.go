// Package config loads persona configuration from ~/.persona/config.json.
// This is the single source of truth for configuration; environment
// variables override individual fields for scripting and CI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig holds all persona configuration from ~/.persona/config.json.
type UserConfig struct {
	// =========================================================================
	// BACKEND CONFIGURATION
	// =========================================================================

	// APIKey authenticates against the chat backend.
	APIKey string `json:"api_key,omitempty"`

	// BaseURL is the OpenAI-compatible chat-completions endpoint.
	BaseURL string `json:"base_url,omitempty"`

	// Model overrides the backend's default model.
	Model string `json:"model,omitempty"`

	// Backend selects the transport: "http" (default) or "scripted"
	// (canned replies, for demos and offline use).
	Backend string `json:"backend,omitempty"`

	// =========================================================================
	// UI SETTINGS
	// =========================================================================

	// Theme for the TUI ("light" or "dark"; empty = auto-detect).
	Theme string `json:"theme,omitempty"`

	// DefaultPersona is the persona used when none is named on the
	// command line.
	DefaultPersona string `json:"default_persona,omitempty"`

	// =========================================================================
	// CHECKLIST STATE
	// =========================================================================

	// PersistChecklist flushes checked checklist items through the store so
	// they survive restarts. Off by default: the baseline checked-set is
	// session-scoped.
	PersistChecklist bool `json:"persist_checklist,omitempty"`

	// =========================================================================
	// LOGGING
	// =========================================================================

	Logging LoggingConfig `json:"logging,omitempty"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	Level      string          `json:"level,omitempty"`      // debug, info, warn, error
	DebugMode  bool            `json:"debug_mode,omitempty"` // Master toggle - false = no logging (production)
	Categories map[string]bool `json:"categories,omitempty"` // Per-category toggles
}

// DefaultHome returns the persona home directory (~/.persona), respecting
// the PERSONA_HOME override.
func DefaultHome() string {
	if home := os.Getenv("PERSONA_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".persona"
	}
	return filepath.Join(userHome, ".persona")
}

// Path returns the config file path under the given home directory.
func Path(home string) string {
	return filepath.Join(home, "config.json")
}

// Load reads the config file under home and applies environment overrides.
// A missing file yields the default config, not an error.
func Load(home string) (*UserConfig, error) {
	cfg := &UserConfig{}

	data, err := os.ReadFile(Path(home))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config file under home, creating the directory if needed.
func (c *UserConfig) Save(home string) error {
	if err := os.MkdirAll(home, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(home), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides layers PERSONA_* environment variables over file values.
func (c *UserConfig) applyEnvOverrides() {
	if v := os.Getenv("PERSONA_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("PERSONA_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("PERSONA_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("PERSONA_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("PERSONA_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("PERSONA_DEFAULT"); v != "" {
		c.DefaultPersona = v
	}
}

// GetBackend returns the configured transport name, defaulting to "http"
// when an API key is present and "scripted" otherwise.
func (c *UserConfig) GetBackend() string {
	if c.Backend != "" {
		return c.Backend
	}
	if c.APIKey != "" {
		return "http"
	}
	return "scripted"
}

// PersonasDir returns the persona definition directory under home.
func PersonasDir(home string) string {
	return filepath.Join(home, "personas")
}

// DataPath returns the SQLite database path under home.
func DataPath(home string) string {
	return filepath.Join(home, "persona.db")
}
