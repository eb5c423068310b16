package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotwise/internal/config"
	"github.com/javiermolinar/slotwise/internal/ui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  slotwise config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.Search.Offsets = promptInts(reader, "Probe offsets in minutes (comma-separated)", cfg.Search.Offsets)
	cfg.Search.MinHour = promptInt(reader, "Earliest start hour", cfg.Search.MinHour)
	cfg.Search.MaxHour = promptInt(reader, "Latest start hour (exclusive)", cfg.Search.MaxHour)
	cfg.Search.MaxResults = promptInt(reader, "Alternatives per search", cfg.Search.MaxResults)
	cfg.Search.FallbackDays = promptInt(reader, "Days to look ahead when a day is full", cfg.Search.FallbackDays)
	cfg.Search.Timezone = promptValue(reader, "Timezone (empty for local)", cfg.Search.Timezone)
	cfg.Combinations.Target = promptInt(reader, "Combinations to generate", cfg.Combinations.Target)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.Storage.Profile = promptValue(reader, "Profile", cfg.Storage.Profile)
	cfg.UI.Theme = promptValue(reader, "Theme ("+strings.Join(theme.Available(), ", ")+" or a .toml file)", cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[search]")
	fmt.Printf("  offsets          = %s\n", joinInts(cfg.Search.Offsets))
	fmt.Printf("  min_hour         = %d\n", cfg.Search.MinHour)
	fmt.Printf("  max_hour         = %d\n", cfg.Search.MaxHour)
	fmt.Printf("  max_results      = %d\n", cfg.Search.MaxResults)
	fmt.Printf("  fallback_days    = %d\n", cfg.Search.FallbackDays)
	if cfg.Search.Timezone != "" {
		fmt.Printf("  timezone         = %s\n", cfg.Search.Timezone)
	}
	fmt.Println("\n[combinations]")
	fmt.Printf("  target           = %d\n", cfg.Combinations.Target)
	fmt.Printf("  attempts         = %d\n", cfg.Combinations.Attempts)
	fmt.Printf("  seed             = %d\n", cfg.Combinations.Seed)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Printf("  profile          = %s\n", cfg.Storage.Profile)
	fmt.Println("\n[log]")
	fmt.Printf("  env              = %s\n", cfg.Log.Env)
	fmt.Printf("  level            = %s\n", cfg.Log.Level)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme            = %s\n", cfg.UI.Theme)
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

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Printf("  Invalid number %q\n", value)
	}
}

func promptInts(reader *bufio.Reader, label string, current []int) []int {
	for {
		value := promptValue(reader, label, joinInts(current))
		out, err := splitInts(value)
		if err == nil {
			return out
		}
		fmt.Printf("  Invalid list %q: %v\n", value, err)
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func splitInts(s string) ([]int, error) {
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
