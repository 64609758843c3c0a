package config_test

import (
	"testing"

	"github.com/frontdesk-labs/keycard/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Env != "dev" {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.DBPath != "./data/keycard.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.PhoneSuffixDigits != 4 {
		t.Errorf("PhoneSuffixDigits = %d", cfg.PhoneSuffixDigits)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KEYCARD_HTTP_ADDR", ":9090")
	t.Setenv("KEYCARD_ENV", "PROD")
	t.Setenv("KEYCARD_PHONE_SUFFIX_DIGITS", "3")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Env != "prod" {
		t.Errorf("Env = %q, want prod (lowercased)", cfg.Env)
	}
	if cfg.PhoneSuffixDigits != 3 {
		t.Errorf("PhoneSuffixDigits = %d", cfg.PhoneSuffixDigits)
	}
}

func TestLoad_UnknownEnvFailsSoft(t *testing.T) {
	t.Setenv("KEYCARD_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "dev" {
		t.Errorf("Env = %q, want dev for unknown value", cfg.Env)
	}
}
