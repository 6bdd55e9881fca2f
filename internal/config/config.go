// Package config loads yearposter settings from a TOML file with
// environment overrides layered on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mattwhite/yearposter/internal/poster"
	"github.com/mattwhite/yearposter/internal/units"
)

// Config mirrors config.toml.
type Config struct {
	Year            int               `toml:"year"`
	Unit            string            `toml:"unit"`
	Data            string            `toml:"data"`
	Output          string            `toml:"output"`
	Title           string            `toml:"title"`
	Width           float64           `toml:"width"`
	Height          float64           `toml:"height"`
	SpecialDistance float64           `toml:"special_distance"`
	Types           []string          `toml:"types"`
	Colors          map[string]string `toml:"colors"`
	AnthropicAPIKey string            `toml:"anthropic_api_key,omitempty"`
}

func defaults() Config {
	return Config{
		Unit:            string(units.Metric),
		Data:            "activities.json",
		Output:          "year_summary.svg",
		Width:           poster.DefaultSize.X,
		Height:          poster.DefaultSize.Y,
		SpecialDistance: poster.DefaultSpecialDistance,
		Types:           []string{"Run"},
		Colors:          map[string]string{},
	}
}

// DefaultPath is ~/.config/yearposter/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "yearposter", "config.toml")
}

// Load reads path (DefaultPath when empty) and applies environment
// overrides. A missing file yields defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg, err := loadFrom(path)
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func loadFrom(path string) (Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return defaults(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Colors == nil {
		cfg.Colors = map[string]string{}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Year = getIntEnv("YEARPOSTER_YEAR", cfg.Year)
	cfg.Unit = getEnv("YEARPOSTER_UNIT", cfg.Unit)
	cfg.Data = getEnv("YEARPOSTER_DATA", cfg.Data)
	cfg.Output = getEnv("YEARPOSTER_OUTPUT", cfg.Output)
	cfg.Title = getEnv("YEARPOSTER_TITLE", cfg.Title)
	cfg.SpecialDistance = getFloatEnv("YEARPOSTER_SPECIAL_DISTANCE", cfg.SpecialDistance)
	if types := getEnv("YEARPOSTER_TYPES", ""); types != "" {
		cfg.Types = splitAndTrim(types)
	}
	cfg.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
}

// EffectiveYear is the configured year, or now's year when unset.
func (c Config) EffectiveYear(now time.Time) int {
	if c.Year > 0 {
		return c.Year
	}
	return now.Year()
}

// Validate checks everything a render needs and resolves the poster host.
func (c Config) Validate() (*poster.Settings, error) {
	unit, err := units.Parse(c.Unit)
	if err != nil {
		return nil, err
	}
	if err := poster.CheckSize(poster.XY{X: c.Width, Y: c.Height}); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if c.Year < 0 {
		return nil, fmt.Errorf("invalid year %d", c.Year)
	}
	settings, err := poster.NewSettings(unit, c.Colors, c.SpecialDistance)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}

// Encode renders the config back to TOML.
func (c Config) Encode() ([]byte, error) {
	c.AnthropicAPIKey = ""
	return toml.Marshal(c)
}

// Save writes the config, API key included, readable only by the owner.
func Save(path string, c Config) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
