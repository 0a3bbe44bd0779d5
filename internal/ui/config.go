package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/config"
	"github.com/javiermolinar/turno/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  turno config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	printConfig(cfg)

	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	cfg.API.BaseURL = promptValue(reader, "API base URL", cfg.API.BaseURL)
	cfg.API.Token = promptValue(reader, "API token (empty if unauthenticated)", cfg.API.Token)
	cfg.Schedule.Pattern = promptValue(reader, "Default pattern (weekdays/weekends/everyday/custom)", cfg.Schedule.Pattern)
	cfg.Schedule.DayStart = promptValue(reader, "Working day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = promptValue(reader, "Working day end", cfg.Schedule.DayEnd)
	cfg.LLM.Provider = promptValue(reader, "LLM provider", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(reader, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Cache.DBPath = promptValue(reader, "Snapshot database path", cfg.Cache.DBPath)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[api]")
	fmt.Printf("  base_url  = %s\n", cfg.API.BaseURL)
	if cfg.API.Token != "" {
		fmt.Println("  token     = (set)")
	}
	fmt.Println("\n[schedule]")
	fmt.Printf("  pattern   = %s\n", cfg.Schedule.Pattern)
	fmt.Printf("  day_start = %s\n", cfg.Schedule.DayStart)
	fmt.Printf("  day_end   = %s\n", cfg.Schedule.DayEnd)
	fmt.Println("\n[llm]")
	fmt.Printf("  provider  = %s\n", cfg.LLM.Provider)
	fmt.Printf("  model     = %s\n", cfg.LLM.Model)
	fmt.Printf("  base_url  = %s\n", cfg.LLM.BaseURL)
	fmt.Println("\n[cache]")
	fmt.Printf("  db_path   = %s\n", cfg.Cache.DBPath)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme     = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
