package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HookName != "useInlineTask" {
		t.Fatalf("expected default hook name useInlineTask, got %q", cfg.HookName)
	}
	if cfg.ReservedPrefix != "__" {
		t.Fatalf("expected default reserved prefix __, got %q", cfg.ReservedPrefix)
	}
	if len(cfg.Extensions) == 0 {
		t.Fatal("expected at least one default extension")
	}
	if cfg.NonElementReturns != "wrap" {
		t.Fatalf("expected default nonElementReturns wrap, got %q", cfg.NonElementReturns)
	}
}

func TestScopeParamAndFreshBindingName(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ScopeParam(); got != "__scope" {
		t.Fatalf("ScopeParam() = %q, want __scope", got)
	}
	if got := cfg.FreshBindingName(0); got != "__task0" {
		t.Fatalf("FreshBindingName(0) = %q, want __task0", got)
	}
	if got := cfg.FreshBindingName(3); got != "__task3" {
		t.Fatalf("FreshBindingName(3) = %q, want __task3", got)
	}
}

func TestIsReserved(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.IsReserved("__scope") {
		t.Fatal("expected __scope to be reserved")
	}
	if cfg.IsReserved("scope") {
		t.Fatal("did not expect scope to be reserved")
	}
}

func TestFingerprintStableAndDistinguishesConfigs(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("expected two default configs to fingerprint identically")
	}

	b.HookName = "useTask"
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("expected a changed hookName to change the fingerprint")
	}

	c := DefaultConfig()
	c.NonElementReturns = "skip"
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("expected a changed nonElementReturns to change the fingerprint")
	}
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "inlinetask.config.json")
	content := `{
		"hookName": "useTask",
		"reservedPrefix": "___",
		"extensions": [".tsx"],
		"nonElementReturns": "skip"
	}`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HookName != "useTask" {
		t.Fatalf("expected hookName useTask, got %q", cfg.HookName)
	}
	if cfg.NonElementReturns != "skip" {
		t.Fatalf("expected nonElementReturns skip, got %q", cfg.NonElementReturns)
	}
	// VendorSegments was left unset in the file and must still carry
	// the DefaultConfig value it was seeded from.
	if len(cfg.VendorSegments) != 1 || cfg.VendorSegments[0] != "node_modules" {
		t.Fatalf("expected default vendorSegments to survive partial overrides, got %v", cfg.VendorSegments)
	}
}

func TestLoadInvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "inlinetask.config.json")
	content := `{"nonElementReturns": "explode"}`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected Load to reject an invalid nonElementReturns value")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error loading a missing config file")
	}
}

func TestDiscoverFindsConfig(t *testing.T) {
	dir := t.TempDir()
	if got := Discover(dir); got != "" {
		t.Fatalf("expected no config discovered in empty dir, got %q", got)
	}

	path := filepath.Join(dir, "inlinetask.config.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	if got := Discover(dir); got != path {
		t.Fatalf("Discover() = %q, want %q", got, path)
	}
}

func TestValidateRejectsExtensionWithoutDot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extensions = []string{"tsx"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for extension missing a leading dot")
	}
}

func TestValidateAggregatesMultipleErrors(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for zero-value config")
	}
	msg := err.Error()
	for _, want := range []string{"hookName", "reservedPrefix", "extensions"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected aggregated error to mention %q, got %q", want, msg)
		}
	}
}
