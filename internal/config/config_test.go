package config

import (
	"testing"
)

func TestResolveCredentialLocalDefault(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := &Config{BaseURL: DefaultBaseURL}
	key, err := cfg.ResolveCredential()
	if err != nil {
		t.Fatalf("ResolveCredential returned error: %v", err)
	}
	if key == "" {
		t.Error("expected a placeholder credential for the local default endpoint")
	}
}

func TestResolveCredentialHostedRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := &Config{BaseURL: "https://api.openai.com/v1"}
	if _, err := cfg.ResolveCredential(); err == nil {
		t.Fatal("expected an error when OPENAI_API_KEY is unset for the hosted endpoint")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	key, err := cfg.ResolveCredential()
	if err != nil {
		t.Fatalf("ResolveCredential returned error: %v", err)
	}
	if key != "sk-test" {
		t.Errorf("key = %q, want sk-test", key)
	}
}

func TestResolveCredentialCustomEndpoint(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	// A non-hosted custom endpoint must not be fatal without a credential.
	cfg := &Config{BaseURL: "http://inference.internal:8080/v1"}
	key, err := cfg.ResolveCredential()
	if err != nil {
		t.Fatalf("ResolveCredential returned error: %v", err)
	}
	if key == "" {
		t.Error("expected a placeholder credential for a custom endpoint")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != nil {
		t.Errorf("Load = %+v, want nil for a missing config file", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	want := &Config{
		Backend: "openai",
		Model:   "gpt-4o-mini",
		BaseURL: "https://api.openai.com/v1",
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil after Save")
	}
	if *got != *want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Backend != DefaultBackend || cfg.Model != DefaultModel || cfg.BaseURL != DefaultBaseURL {
		t.Errorf("ApplyDefaults = %+v, want built-in defaults", cfg)
	}

	cfg = &Config{Model: "custom"}
	cfg.ApplyDefaults()
	if cfg.Model != "custom" {
		t.Errorf("ApplyDefaults overwrote an explicit value: %+v", cfg)
	}
}
