package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Env selects dev conveniences (seeded starter room).
	Env    string `envconfig:"ENV" default:"dev"`
	DBPath string `envconfig:"DB_PATH" default:"./data/keycard.db"`

	// PhoneSuffixDigits is how many trailing phone digits an identity
	// challenge compares.
	PhoneSuffixDigits int `envconfig:"PHONE_SUFFIX_DIGITS" default:"4"`
}

// Load reads configuration from the environment with prefix KEYCARD_,
// after loading a .env file if one is present next to the binary.
func Load() (Config, error) {
	// Best-effort: a missing .env is the normal case in prod.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("keycard", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	cfg.Env = strings.ToLower(cfg.Env)
	if cfg.Env != "dev" && cfg.Env != "prod" {
		// fail-soft: treat unknown as dev
		cfg.Env = "dev"
	}
	if cfg.PhoneSuffixDigits <= 0 {
		cfg.PhoneSuffixDigits = 4
	}

	return cfg, nil
}
