package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvBackend       = "ALIMAH_BACKEND"
	EnvBackendURL    = "ALIMAH_BACKEND_URL"
	EnvBackendToken  = "ALIMAH_BACKEND_TOKEN"
	EnvTranslateURL  = "ALIMAH_TRANSLATE_URL"
	EnvTranslateMail = "ALIMAH_TRANSLATE_EMAIL"
	EnvLanguage      = "ALIMAH_LANGUAGE"
	EnvLogLevel      = "ALIMAH_LOG_LEVEL"
	EnvProxy         = "ALIMAH_PROXY"
	EnvSimDelay      = "ALIMAH_SIMULATED_DELAY_MS"
)

// LoadEnvFile loads variables from a .env file into the process environment.
// Variables already set are not overwritten. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnv overrides cfg with ALIMAH_* environment variables
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv(EnvTranslateURL); v != "" {
		cfg.TranslateURL = v
	}
	if v := os.Getenv(EnvTranslateMail); v != "" {
		cfg.TranslateEmail = v
	}
	if v := os.Getenv(EnvLanguage); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvProxy); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv(EnvSimDelay); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.SimulatedDelayMs = ms
		}
	}
}

// BackendToken returns the bearer token for the remote backend.
// It is read from the environment only and never written to config.json.
func BackendToken() string {
	return os.Getenv(EnvBackendToken)
}
