package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hunseop/automated-task-launcher/internal/errors"
)

// Config holds the launcher's global configuration, stored at ~/.atl/config.yaml
type Config struct {
	// BaseURL is the backend service address
	BaseURL string `yaml:"base_url"`

	// PageSize is the number of result rows shown per page
	PageSize int `yaml:"page_size"`

	// ExportDir is where exported spreadsheets are written
	ExportDir string `yaml:"export_dir"`

	// LogLevel is the minimum log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogFormat is the log output format (text, json)
	LogFormat string `yaml:"log_format"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		BaseURL:   "http://127.0.0.1:8000",
		PageSize:  10,
		ExportDir: ".",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Path returns the configuration file path
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigRead, "resolve home directory", err)
	}
	return filepath.Join(home, ".atl", "config.yaml"), nil
}

// Load reads the configuration file, applies environment overrides, and
// falls back to defaults when no file exists.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file is fine; defaults apply.
	case err != nil:
		return cfg, errors.Wrap(errors.ErrCodeConfigRead, "read config file", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeConfigInvalid, "parse config file", err).
				WithSuggestion("Check the YAML syntax in " + path)
		}
	}

	applyEnv(&cfg)

	if cfg.PageSize <= 0 {
		cfg.PageSize = Default().PageSize
	}

	return cfg, nil
}

// Save writes the configuration file, creating the directory if needed
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeConfigRead, "create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "marshal config", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeConfigRead, "write config file", err)
	}

	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ATL_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ATL_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
	if v := os.Getenv("ATL_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("ATL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ATL_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
