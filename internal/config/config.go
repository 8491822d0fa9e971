// Package config handles configuration and the persona catalog for personachat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/diogo/personachat/internal/models"
)

// HomeEnv overrides the configuration directory
const HomeEnv = "PERSONACHAT_HOME"

// Config represents the user configuration
type Config struct {
	// BackendURL is the base URL of the chat backend; /chat is appended
	BackendURL string `json:"backend_url" env:"PERSONACHAT_BACKEND_URL"`
	// DefaultPersona is selected when the TUI starts
	DefaultPersona string `json:"default_persona,omitempty" env:"PERSONACHAT_DEFAULT_PERSONA"`
	// Greeting is the canned entry shown after start and after a persona change
	Greeting string `json:"greeting,omitempty" env:"PERSONACHAT_GREETING"`
	// RequestTimeout in seconds. Zero leaves the transport default in place.
	RequestTimeout int    `json:"request_timeout,omitempty" env:"PERSONACHAT_REQUEST_TIMEOUT"`
	LogLevel       string `json:"log_level,omitempty" env:"PERSONACHAT_LOG_LEVEL"`
	// LogFile receives diagnostics while the TUI owns the terminal
	LogFile         string `json:"log_file,omitempty" env:"PERSONACHAT_LOG_FILE"`
	TUITheme        string `json:"tui_theme,omitempty" env:"PERSONACHAT_TUI_THEME"`
	// MarkdownStyle is a glamour style name or file. Empty follows the TUI theme.
	MarkdownStyle   string `json:"markdown_style,omitempty" env:"PERSONACHAT_MARKDOWN_STYLE"`
	CopyToClipboard bool   `json:"copy_to_clipboard" env:"PERSONACHAT_COPY_TO_CLIPBOARD"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BackendURL:      models.DefaultBackendURL,
		DefaultPersona:  "movie_expert",
		Greeting:        models.DefaultGreeting,
		RequestTimeout:  0,
		LogLevel:        "info",
		TUITheme:        "tokyonight",
		CopyToClipboard: false,
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".personachat"), nil
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
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file from config, defaulting inside the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "personachat.log"), nil
}

// LoadConfig loads the configuration from disk and applies env overrides
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to apply environment: %w", err)
	}

	if cfg.BackendURL == "" {
		cfg.BackendURL = models.DefaultBackendURL
	}
	if cfg.Greeting == "" {
		cfg.Greeting = models.DefaultGreeting
	}
	if cfg.RequestTimeout < 0 {
		cfg.RequestTimeout = 0
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
