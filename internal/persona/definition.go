// Package persona loads and serves persona definitions: the name, system
// prompt, and greeting that shape one configurable AI character. Definitions
// are YAML files in ~/.persona/personas/, hot-reloaded while the chat UI is
// running.
package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is one persona as authored in a YAML file.
type Definition struct {
	// Name identifies the persona; it doubles as the display name in the
	// chat header. Required.
	Name string `yaml:"name"`

	// Description is a one-line summary shown in persona lists.
	Description string `yaml:"description,omitempty"`

	// SystemPrompt is the instruction block sent to the backend on every
	// turn. Required.
	SystemPrompt string `yaml:"system_prompt"`

	// Greeting is the assistant message shown when a new session starts.
	Greeting string `yaml:"greeting,omitempty"`

	// SuggestedPrompts seed the input box for first-time users.
	SuggestedPrompts []string `yaml:"suggested_prompts,omitempty"`
}

// Validate checks the required fields.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("persona name is required")
	}
	if strings.TrimSpace(d.SystemPrompt) == "" {
		return fmt.Errorf("persona %q: system_prompt is required", d.Name)
	}
	return nil
}

// DefaultDefinition is the built-in fallback used when the personas
// directory is empty or missing, so the chat UI always has something to
// talk to.
func DefaultDefinition() Definition {
	return Definition{
		Name:         "Assistant",
		Description:  "General-purpose assistant",
		SystemPrompt: "You are a helpful, concise assistant.",
		Greeting:     "Hi! What can I help you with today?",
	}
}

// LoadFile parses and validates one persona YAML file.
func LoadFile(path string) (Definition, error) {
	var def Definition

	data, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("failed to read persona file: %w", err)
	}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return def, fmt.Errorf("failed to parse persona file %s: %w", filepath.Base(path), err)
	}
	if err := def.Validate(); err != nil {
		return def, err
	}
	return def, nil
}

// LoadDir loads every .yaml/.yml persona file in dir, sorted by name.
// Invalid files are skipped with an error list; a missing directory yields
// an empty slice.
func LoadDir(dir string) ([]Definition, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{err}
	}

	var defs []Definition
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		def, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, errs
}
