package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diogo/alimah/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend != BackendRemote {
		t.Errorf("Backend = %s, want %s", cfg.Backend, BackendRemote)
	}
	if cfg.TranslateURL != models.EndpointTranslate {
		t.Errorf("TranslateURL = %s, want %s", cfg.TranslateURL, models.EndpointTranslate)
	}
	if cfg.SimulatedDelay() != 800*time.Millisecond {
		t.Errorf("SimulatedDelay() = %v, want 800ms", cfg.SimulatedDelay())
	}
	if cfg.TTSRate != 0.9 {
		t.Errorf("TTSRate = %v, want 0.9", cfg.TTSRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("ALIMAH_HOME", tmpDir)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir failed: %v", err)
	}
	if dir != tmpDir {
		t.Errorf("GetConfigDir() = %s, want %s", dir, tmpDir)
	}
}

func TestGetConfigPath_Override(t *testing.T) {
	SetConfigPath("/tmp/custom.json")
	defer SetConfigPath("")

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if path != "/tmp/custom.json" {
		t.Errorf("GetConfigPath() = %s, want /tmp/custom.json", path)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("ALIMAH_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Backend != BackendRemote {
		t.Errorf("expected defaults, got backend %s", cfg.Backend)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("ALIMAH_HOME", tmpDir)

	cfg := DefaultConfig()
	cfg.Backend = BackendSimulated
	cfg.Language = "sw"
	cfg.SimulatedDelayMs = 10

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(tmpDir, "config.json"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Backend != BackendSimulated {
		t.Errorf("Backend = %s, want simulated", loaded.Backend)
	}
	if loaded.LanguageMode() != models.Swahili {
		t.Errorf("LanguageMode() = %s, want sw", loaded.LanguageMode())
	}
	if loaded.SimulatedDelayMs != 10 {
		t.Errorf("SimulatedDelayMs = %d, want 10", loaded.SimulatedDelayMs)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("ALIMAH_HOME", tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte("{invalid"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
	if cfg.Backend != BackendRemote {
		t.Error("expected defaults to be returned on parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBackend, BackendSimulated)
	t.Setenv(EnvBackendURL, "ws://localhost:9000/ws")
	t.Setenv(EnvLanguage, "sw")
	t.Setenv(EnvSimDelay, "25")
	t.Setenv(EnvBackendToken, "secret")

	cfg := DefaultConfig()
	ApplyEnv(&cfg)

	if cfg.Backend != BackendSimulated {
		t.Errorf("Backend = %s", cfg.Backend)
	}
	if cfg.BackendURL != "ws://localhost:9000/ws" {
		t.Errorf("BackendURL = %s", cfg.BackendURL)
	}
	if cfg.Language != "sw" {
		t.Errorf("Language = %s", cfg.Language)
	}
	if cfg.SimulatedDelayMs != 25 {
		t.Errorf("SimulatedDelayMs = %d", cfg.SimulatedDelayMs)
	}
	if BackendToken() != "secret" {
		t.Errorf("BackendToken() = %s", BackendToken())
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ALIMAH_TEST_ENV_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv("ALIMAH_TEST_ENV_VALUE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if os.Getenv("ALIMAH_TEST_ENV_VALUE") != "from-file" {
		t.Error("variable from .env was not loaded")
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file should not be an error: %v", err)
	}
}

func TestSendGuardEnabled(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SendGuardEnabled() {
		t.Error("remote backend should default to no send guard")
	}

	cfg.Backend = BackendSimulated
	if !cfg.SendGuardEnabled() {
		t.Error("simulated backend should default to send guard")
	}

	off := false
	cfg.SendGuard = &off
	if cfg.SendGuardEnabled() {
		t.Error("explicit send_guard=false should win")
	}
}

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		check   func(Config) bool
		wantErr bool
	}{
		{"backend", "simulated", func(c Config) bool { return c.Backend == "simulated" }, false},
		{"language", "Swahili", func(c Config) bool { return c.Language == "sw" }, false},
		{"language", "fr", nil, true},
		{"translate_rps", "2.5", func(c Config) bool { return c.TranslateRPS == 2.5 }, false},
		{"translate_rps", "fast", nil, true},
		{"send_guard", "true", func(c Config) bool { return c.SendGuard != nil && *c.SendGuard }, false},
		{"send_guard", "auto", func(c Config) bool { return c.SendGuard == nil }, false},
		{"markdown.style", "light", func(c Config) bool { return c.Markdown.Style == "light" }, false},
		{"nope", "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("Set(%s, %s) did not apply", tt.key, tt.value)
			}
		})
	}
}

func TestKeys_AllSettable(t *testing.T) {
	values := map[string]string{
		"translate_rps": "1", "translate_concurrency": "2", "language": "en", "reply_language": "en",
		"auto_translate": "true", "send_guard": "auto", "simulated_delay_ms": "1", "request_timeout": "5",
		"tts_rate": "1", "max_record_seconds": "3", "listen_cue": "false", "copy_to_clipboard": "true",
		"show_timestamps": "false",
	}
	for _, key := range Keys() {
		cfg := DefaultConfig()
		value, ok := values[key]
		if !ok {
			value = "x"
		}
		if err := cfg.Set(key, value); err != nil {
			t.Errorf("Set(%s) failed: %v", key, err)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg = DefaultConfig()
	cfg.BackendURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing backend_url")
	}

	cfg.Backend = BackendSimulated
	if err := cfg.Validate(); err != nil {
		t.Errorf("simulated backend does not need a URL: %v", err)
	}
}
