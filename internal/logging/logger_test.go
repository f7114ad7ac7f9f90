package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUninitializedLoggingIsNoOp(t *testing.T) {
	// Must never panic before Initialize.
	Get(CategoryAnnotate).Info("hello")
	AnnotateDebug("debug %d", 1)
	Dispatch("dispatch")
}

func TestInitializeWithoutConfig(t *testing.T) {
	home := t.TempDir()
	if err := Initialize(home); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(CloseAll)

	// No config file means production mode: no logs dir created.
	if _, err := os.Stat(filepath.Join(home, "logs")); !os.IsNotExist(err) {
		t.Error("logs directory created in production mode")
	}
	if IsDebugMode() {
		t.Error("debug mode on without config")
	}
}

func TestInitializeDebugMode(t *testing.T) {
	home := t.TempDir()
	cfg := `{"logging": {"debug_mode": true, "level": "debug"}}`
	if err := os.WriteFile(filepath.Join(home, "config.json"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Initialize(home); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(CloseAll)

	if !IsDebugMode() {
		t.Fatal("debug mode off with debug config")
	}

	Session("session started %s", "abc")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(home, "logs"))
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	var found bool
	for _, e := range entries {
		if strings.Contains(e.Name(), "session") {
			found = true
		}
	}
	if !found {
		t.Error("no session log file written")
	}
}

func TestReloadConfigEnablesDebugAtRuntime(t *testing.T) {
	home := t.TempDir()
	if err := Initialize(home); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(CloseAll)

	if IsDebugMode() {
		t.Fatal("debug mode on without config")
	}

	cfg := `{"logging": {"debug_mode": true, "level": "debug"}}`
	if err := os.WriteFile(filepath.Join(home, "config.json"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ReloadConfig(); err != nil {
		t.Fatalf("ReloadConfig: %v", err)
	}

	if !IsDebugMode() {
		t.Fatal("debug mode off after reload")
	}
	if _, err := os.Stat(filepath.Join(home, "logs")); err != nil {
		t.Errorf("logs directory missing after reload: %v", err)
	}

	Boot("reloaded")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(home, "logs"))
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	var found bool
	for _, e := range entries {
		if strings.Contains(e.Name(), "boot") {
			found = true
		}
	}
	if !found {
		t.Error("no boot log file written after reload")
	}
}

func TestCategoryFilter(t *testing.T) {
	home := t.TempDir()
	cfg := `{"logging": {"debug_mode": true, "categories": {"render": false}}}`
	if err := os.WriteFile(filepath.Join(home, "config.json"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Initialize(home); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(CloseAll)

	if IsCategoryEnabled(CategoryRender) {
		t.Error("render category should be disabled")
	}
	if !IsCategoryEnabled(CategoryStore) {
		t.Error("store category should default to enabled")
	}
}
