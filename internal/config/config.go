// Package config handles configuration loading and saving for alimah.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/diogo/alimah/internal/models"
)

// Backend kinds
const (
	BackendRemote    = "remote"
	BackendSimulated = "simulated"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// Backend selects the reply source: "remote" or "simulated".
	Backend string `json:"backend"`
	// BackendURL is the reply endpoint. http(s):// uses JSON POST, ws(s):// uses WebSocket frames.
	BackendURL string `json:"backend_url"`
	// ReplyPath is the gjson path of the reply text in the backend's JSON answer.
	ReplyPath string `json:"reply_path"`
	// HealthPath is probed with GET during initialization when set.
	HealthPath string `json:"health_path,omitempty"`

	TranslateURL         string  `json:"translate_url"`
	TranslateEmail       string  `json:"translate_email,omitempty"` // raises the MyMemory daily quota
	TranslateRPS         float64 `json:"translate_rps"`
	TranslateConcurrency int     `json:"translate_concurrency"` // 0 means one request per message, unbounded

	Language      string `json:"language"`
	ReplyLanguage string `json:"reply_language"`
	AutoTranslate bool   `json:"auto_translate"`
	// SendGuard disables sending while a reply is pending. Nil picks the
	// per-backend default (on for simulated, off for remote).
	SendGuard *bool `json:"send_guard,omitempty"`

	SimulatedDelayMs int    `json:"simulated_delay_ms"`
	SimulatedPhrases string `json:"simulated_phrases,omitempty"`

	RequestTimeout int    `json:"request_timeout"` // seconds
	Proxy          string `json:"proxy,omitempty"`

	TTSCommand       string  `json:"tts_command"`
	TTSRate          float64 `json:"tts_rate"`
	STTCommand       string  `json:"stt_command"`
	STTModel         string  `json:"stt_model"`
	MaxRecordSeconds int     `json:"max_record_seconds"`
	ListenCue        bool    `json:"listen_cue"`

	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	ShowTimestamps  bool           `json:"show_timestamps"`
	LogLevel        string         `json:"log_level"`
	LogFile         string         `json:"log_file,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Backend:              BackendRemote,
		BackendURL:           models.EndpointBackend,
		ReplyPath:            "reply",
		TranslateURL:         models.EndpointTranslate,
		TranslateRPS:         5,
		TranslateConcurrency: 0,
		Language:             string(models.DefaultLanguage),
		ReplyLanguage:        string(models.English),
		AutoTranslate:        false,
		SimulatedDelayMs:     int(models.SimulatedDelay / time.Millisecond),
		RequestTimeout:       60,
		TTSCommand:           "espeak-ng",
		TTSRate:              0.9,
		STTCommand:           "whisper-cli",
		STTModel:             "models/ggml-base.bin",
		MaxRecordSeconds:     10,
		ListenCue:            true,
		CopyToClipboard:      false,
		TUITheme:             "tokyonight",
		ShowTimestamps:       true,
		LogLevel:             "info",
		Markdown:             DefaultMarkdownConfig(),
	}
}

// configPathOverride is set by --config
var configPathOverride string

// SetConfigPath overrides the config file location
func SetConfigPath(path string) {
	configPathOverride = path
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv("ALIMAH_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".alimah"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	if configPathOverride != "" {
		return configPathOverride, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path from config, defaulting to the config directory
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "alimah.log"), nil
}

// LoadConfig loads the configuration from disk and applies ALIMAH_* environment overrides
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnv(&cfg)
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyEnv(&cfg)
	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail deep inside a session
func (c Config) Validate() error {
	if c.Backend != BackendRemote && c.Backend != BackendSimulated {
		return fmt.Errorf("invalid backend %q (use %s or %s)", c.Backend, BackendRemote, BackendSimulated)
	}
	if c.Backend == BackendRemote && c.BackendURL == "" {
		return fmt.Errorf("backend_url is required for the remote backend")
	}
	if _, err := models.ParseLanguage(c.Language); err != nil {
		return fmt.Errorf("language: %w", err)
	}
	if _, err := models.ParseLanguage(c.ReplyLanguage); err != nil {
		return fmt.Errorf("reply_language: %w", err)
	}
	if c.TranslateRPS < 0 {
		return fmt.Errorf("translate_rps must not be negative")
	}
	if c.TTSRate <= 0 {
		return fmt.Errorf("tts_rate must be positive")
	}
	return nil
}

// LanguageMode returns the configured starting language, falling back to English
func (c Config) LanguageMode() models.Language {
	lang, err := models.ParseLanguage(c.Language)
	if err != nil {
		return models.DefaultLanguage
	}
	return lang
}

// ReplyLanguageMode returns the language the backend answers in
func (c Config) ReplyLanguageMode() models.Language {
	lang, err := models.ParseLanguage(c.ReplyLanguage)
	if err != nil {
		return models.English
	}
	return lang
}

// SendGuardEnabled resolves the duplicate-submission guard for the configured backend
func (c Config) SendGuardEnabled() bool {
	if c.SendGuard != nil {
		return *c.SendGuard
	}
	return c.Backend == BackendSimulated
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// SimulatedDelay returns the artificial latency of the simulated backend
func (c Config) SimulatedDelay() time.Duration {
	if c.SimulatedDelayMs < 0 {
		return 0
	}
	return time.Duration(c.SimulatedDelayMs) * time.Millisecond
}

// Keys returns the keys accepted by Set, in display order
func Keys() []string {
	return []string{
		"backend", "backend_url", "reply_path", "health_path",
		"translate_url", "translate_email", "translate_rps", "translate_concurrency",
		"language", "reply_language", "auto_translate", "send_guard",
		"simulated_delay_ms", "simulated_phrases", "request_timeout", "proxy",
		"tts_command", "tts_rate", "stt_command", "stt_model", "max_record_seconds", "listen_cue",
		"copy_to_clipboard", "tui_theme", "show_timestamps", "log_level", "log_file",
		"markdown.style",
	}
}

// Set assigns a single key from its string form
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "backend":
		c.Backend = value
	case "backend_url":
		c.BackendURL = value
	case "reply_path":
		c.ReplyPath = value
	case "health_path":
		c.HealthPath = value
	case "translate_url":
		c.TranslateURL = value
	case "translate_email":
		c.TranslateEmail = value
	case "translate_rps":
		c.TranslateRPS, err = strconv.ParseFloat(value, 64)
	case "translate_concurrency":
		c.TranslateConcurrency, err = strconv.Atoi(value)
	case "language":
		var lang models.Language
		lang, err = models.ParseLanguage(value)
		c.Language = string(lang)
	case "reply_language":
		var lang models.Language
		lang, err = models.ParseLanguage(value)
		c.ReplyLanguage = string(lang)
	case "auto_translate":
		c.AutoTranslate, err = strconv.ParseBool(value)
	case "send_guard":
		if strings.EqualFold(value, "auto") {
			c.SendGuard = nil
			break
		}
		var b bool
		b, err = strconv.ParseBool(value)
		c.SendGuard = &b
	case "simulated_delay_ms":
		c.SimulatedDelayMs, err = strconv.Atoi(value)
	case "simulated_phrases":
		c.SimulatedPhrases = value
	case "request_timeout":
		c.RequestTimeout, err = strconv.Atoi(value)
	case "proxy":
		c.Proxy = value
	case "tts_command":
		c.TTSCommand = value
	case "tts_rate":
		c.TTSRate, err = strconv.ParseFloat(value, 64)
	case "stt_command":
		c.STTCommand = value
	case "stt_model":
		c.STTModel = value
	case "max_record_seconds":
		c.MaxRecordSeconds, err = strconv.Atoi(value)
	case "listen_cue":
		c.ListenCue, err = strconv.ParseBool(value)
	case "copy_to_clipboard":
		c.CopyToClipboard, err = strconv.ParseBool(value)
	case "tui_theme":
		c.TUITheme = value
	case "show_timestamps":
		c.ShowTimestamps, err = strconv.ParseBool(value)
	case "log_level":
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	case "markdown.style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}
