package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("expected base_url http://localhost:8080, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Token != "" {
		t.Errorf("expected empty default token, got %q", cfg.API.Token)
	}
	if cfg.Schedule.Pattern != "weekdays" {
		t.Errorf("expected pattern weekdays, got %s", cfg.Schedule.Pattern)
	}
	if cfg.Schedule.DayStart != "09:00" {
		t.Errorf("expected day_start 09:00, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "17:00" {
		t.Errorf("expected day_end 17:00, got %s", cfg.Schedule.DayEnd)
	}
	if cfg.LLM.Provider != "copilot" {
		t.Errorf("expected provider copilot, got %s", cfg.LLM.Provider)
	}
	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected theme frappe, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Schedule.DayStart != "09:00" {
		t.Errorf("expected default day_start, got %s", cfg.Schedule.DayStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[api]
base_url = "https://booking.example.com"
token = "tok-from-file"

[schedule]
pattern = "everyday"
day_start = "08:00"
day_end = "16:00"

[llm]
provider = "ollama"
model = "llama3"
base_url = "http://localhost:11435"

[cache]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "https://booking.example.com" {
		t.Errorf("expected base_url https://booking.example.com, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Token != "tok-from-file" {
		t.Errorf("expected token tok-from-file, got %s", cfg.API.Token)
	}
	if cfg.Schedule.Pattern != "everyday" {
		t.Errorf("expected pattern everyday, got %s", cfg.Schedule.Pattern)
	}
	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected day_start 08:00, got %s", cfg.Schedule.DayStart)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "llama3" {
		t.Errorf("expected model llama3, got %s", cfg.LLM.Model)
	}
	if cfg.Cache.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Cache.DBPath)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[api]
base_url = "https://booking.example.com"
token = "tok-from-file"

[schedule]
day_start = "08:00"
day_end = "16:00"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("TURNO_API_TOKEN", "tok-from-env")
	t.Setenv("TURNO_DAY_START", "10:00")
	t.Setenv("TURNO_LLM_MODEL", "gpt-4o-mini")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.API.Token != "tok-from-env" {
		t.Errorf("expected token tok-from-env, got %s", cfg.API.Token)
	}
	if cfg.Schedule.DayStart != "10:00" {
		t.Errorf("expected day_start 10:00 from env, got %s", cfg.Schedule.DayStart)
	}
	// File value should be kept when no env override
	if cfg.Schedule.DayEnd != "16:00" {
		t.Errorf("expected day_end 16:00 from file, got %s", cfg.Schedule.DayEnd)
	}
	// Env should override default
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini from env, got %s", cfg.LLM.Model)
	}
}

func TestValidate_InvalidBaseURL(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "booking.example.com"

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for base_url without scheme")
	}
}

func TestValidate_InvalidPattern(t *testing.T) {
	cfg := Default()
	cfg.Schedule.Pattern = "fortnightly"

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown pattern")
	}
}

func TestValidate_InvalidDayStart(t *testing.T) {
	cfg := Default()
	cfg.Schedule.DayStart = "9:00" // Missing leading zero

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid day_start")
	}
}

func TestValidate_UnalignedDayStart(t *testing.T) {
	cfg := Default()
	cfg.Schedule.DayStart = "09:15"

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unaligned day_start")
	}
}

func TestValidate_DayStartAfterDayEnd(t *testing.T) {
	cfg := Default()
	cfg.Schedule.DayStart = "18:00"
	cfg.Schedule.DayEnd = "09:00"

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when day_start >= day_end")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "https://booking.example.com"
	cfg.Schedule.DayStart = "07:30"
	cfg.Schedule.DayEnd = "15:30"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.API.BaseURL != "https://booking.example.com" {
		t.Errorf("expected base_url https://booking.example.com, got %s", loaded.API.BaseURL)
	}
	if loaded.Schedule.DayStart != "07:30" {
		t.Errorf("expected day_start 07:30, got %s", loaded.Schedule.DayStart)
	}
	if loaded.Schedule.DayEnd != "15:30" {
		t.Errorf("expected day_end 15:30, got %s", loaded.Schedule.DayEnd)
	}
}
