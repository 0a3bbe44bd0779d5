// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/turno/internal/slot"
)

// Config holds the application configuration.
type Config struct {
	API      APIConfig      `toml:"api"`
	Schedule ScheduleConfig `toml:"schedule"`
	LLM      LLMConfig      `toml:"llm"`
	Cache    CacheConfig    `toml:"cache"`
	UI       UIConfig       `toml:"ui"`
}

// APIConfig holds booking API connection settings.
type APIConfig struct {
	BaseURL string `toml:"base_url"` // e.g., "https://api.example.com"
	Token   string `toml:"token"`    // provider auth token; TURNO_API_TOKEN wins over this
}

// ScheduleConfig holds the provider's default working pattern, used to
// prefill the pattern form and the apply-pattern command.
type ScheduleConfig struct {
	Pattern  string `toml:"pattern"`  // "weekdays", "weekends", "everyday", "custom"
	DayStart string `toml:"day_start"` // e.g., "09:00"
	DayEnd   string `toml:"day_end"`   // e.g., "17:00"
}

// LLMConfig holds LLM provider settings for pattern suggestions.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// CacheConfig holds the offline snapshot database settings.
type CacheConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "auto" or a palette name ("mocha", "latte", ...)
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
		},
		Schedule: ScheduleConfig{
			Pattern:  "weekdays",
			DayStart: "09:00",
			DayEnd:   "17:00",
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Cache: CacheConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// defaultDBPath returns the default snapshot database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "turno.db"
	}
	return filepath.Join(home, ".local", "share", "turno", "turno.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "turno", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Cache.DBPath = expandPath(cfg.Cache.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TURNO_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("TURNO_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}

	if v := os.Getenv("TURNO_SCHEDULE_PATTERN"); v != "" {
		cfg.Schedule.Pattern = v
	}
	if v := os.Getenv("TURNO_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("TURNO_DAY_END"); v != "" {
		cfg.Schedule.DayEnd = v
	}

	if v := os.Getenv("TURNO_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("TURNO_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("TURNO_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("TURNO_DB_PATH"); v != "" {
		cfg.Cache.DBPath = v
	}

	if v := os.Getenv("TURNO_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base_url must be set")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api base_url must start with http:// or https://, got %q", c.API.BaseURL)
	}

	if _, err := slot.ParsePattern(c.Schedule.Pattern); err != nil {
		return fmt.Errorf("schedule pattern: %w", err)
	}
	if err := slot.ValidateTime(c.Schedule.DayStart); err != nil {
		return fmt.Errorf("day_start: %w", err)
	}
	if err := slot.ValidateTime(c.Schedule.DayEnd); err != nil {
		return fmt.Errorf("day_end: %w", err)
	}
	if c.Schedule.DayStart >= c.Schedule.DayEnd {
		return errors.New("day_start must be before day_end")
	}

	if c.Cache.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
