package persona

import (
	"os"
	"path/filepath"
	"testing"
)

func writePersona(t *testing.T, dir, file, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

const tutorYAML = `name: Tutor
description: Patient explainer
system_prompt: You explain things step by step.
greeting: Ready to learn?
suggested_prompts:
  - Explain recursion
`

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "tutor.yaml", tutorYAML)

	def, err := LoadFile(filepath.Join(dir, "tutor.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if def.Name != "Tutor" || def.Greeting != "Ready to learn?" {
		t.Errorf("def = %+v", def)
	}
	if len(def.SuggestedPrompts) != 1 {
		t.Errorf("suggested prompts = %v", def.SuggestedPrompts)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{"valid", Definition{Name: "A", SystemPrompt: "p"}, false},
		{"missing name", Definition{SystemPrompt: "p"}, true},
		{"missing prompt", Definition{Name: "A"}, true},
		{"whitespace name", Definition{Name: "  ", SystemPrompt: "p"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "tutor.yaml", tutorYAML)
	writePersona(t, dir, "coach.yml", "name: Coach\nsystem_prompt: Motivate.\n")
	writePersona(t, dir, "broken.yaml", "name: Broken\n") // no system_prompt
	writePersona(t, dir, "notes.txt", "not a persona")

	defs, errs := LoadDir(dir)
	if len(errs) != 1 {
		t.Errorf("errs = %v, want 1 for the invalid file", errs)
	}
	if len(defs) != 2 {
		t.Fatalf("defs = %d, want 2", len(defs))
	}
	// Sorted by name.
	if defs[0].Name != "Coach" || defs[1].Name != "Tutor" {
		t.Errorf("order = %s, %s", defs[0].Name, defs[1].Name)
	}
}

func TestLoadDirMissing(t *testing.T) {
	defs, errs := LoadDir(filepath.Join(t.TempDir(), "nope"))
	if defs != nil || errs != nil {
		t.Errorf("missing dir should be empty, got defs=%v errs=%v", defs, errs)
	}
}

func TestRegistryGetAndDefault(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "tutor.yaml", tutorYAML)
	writePersona(t, dir, "coach.yml", "name: Coach\nsystem_prompt: Motivate.\n")

	r := NewRegistry(dir)

	if def, ok := r.Get("TUTOR"); !ok || def.Name != "Tutor" {
		t.Errorf("case-insensitive Get failed: %+v ok=%v", def, ok)
	}
	if _, ok := r.Get("nobody"); ok {
		t.Error("unknown persona found")
	}

	if def := r.Default("coach"); def.Name != "Coach" {
		t.Errorf("Default(coach) = %s", def.Name)
	}
	// Unknown preferred falls back to first alphabetically.
	if def := r.Default("ghost"); def.Name != "Coach" {
		t.Errorf("Default(ghost) = %s", def.Name)
	}
}

func TestRegistryEmptyDirServesFallback(t *testing.T) {
	r := NewRegistry(filepath.Join(t.TempDir(), "missing"))

	def := r.Default("")
	if def.Name != "Assistant" {
		t.Errorf("fallback = %s, want Assistant", def.Name)
	}
	if len(r.List()) != 1 {
		t.Errorf("list = %+v", r.List())
	}
}
