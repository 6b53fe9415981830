package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvFile = "SPENDVIEW_FILE"
	EnvAddr = "SPENDVIEW_ADDR"
)

// Config holds all spendview configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Selection  SelectionConfig  `toml:"selection"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataFile string `toml:"data_file"`
}

// ServerConfig holds web dashboard settings.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	PollIntervalSec int    `toml:"poll_interval_sec"`
	EventsBuffer    int    `toml:"events_buffer,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// SelectionConfig holds the initial chart selections. Empty lists fall back
// to the built-in defaults.
type SelectionConfig struct {
	Gender []string `toml:"gender,omitempty"`
	Years  []string `toml:"years,omitempty"`
	Majors []string `toml:"majors,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DataFile: "student_spending.csv",
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8501",
			PollIntervalSec: 5,
			EventsBuffer:    200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spendview")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file in the working directory is loaded first, then environment
// overrides are applied on top of the file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path and applies environment overrides.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvFile)); v != "" {
		cfg.General.DataFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Server.Addr = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// DefaultSelection resolves the configured chart selections. Each empty list
// falls back to the built-in default for that chart.
func (c Config) DefaultSelection() (model.Selection, error) {
	sel := pipeline.DefaultSelection()

	resolve := func(names []string, allowed []model.Category, dst *[]model.Category, key string) error {
		if len(names) == 0 {
			return nil
		}
		cats, err := pipeline.ParseCategories(names, allowed)
		if err != nil {
			return fmt.Errorf("selection.%s: %w", key, err)
		}
		*dst = cats
		return nil
	}

	if err := resolve(c.Selection.Gender, model.SpendingCategories, &sel.Gender, "gender"); err != nil {
		return sel, err
	}
	if err := resolve(c.Selection.Years, model.YearCategories, &sel.Years, "years"); err != nil {
		return sel, err
	}
	if err := resolve(c.Selection.Majors, model.SpendingCategories, &sel.Majors, "majors"); err != nil {
		return sel, err
	}
	return sel, nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
