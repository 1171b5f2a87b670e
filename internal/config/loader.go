package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigPath returns the default configuration file path:
// ~/.harborseal/config.json.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".harborseal/config.json"
	}
	return filepath.Join(home, ".harborseal", "config.json")
}

// DataDir returns the harborseal data directory: ~/.harborseal.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".harborseal"
	}
	return filepath.Join(home, ".harborseal")
}

// JobsPath returns the cron job store path inside the data dir.
func JobsPath() string { return filepath.Join(DataDir(), "cron", "jobs.json") }

// RunsPath returns the run-log store path inside the data dir.
func RunsPath() string { return filepath.Join(DataDir(), "cron", "runs.json") }

// PresetsPath returns the user preset file path inside the data dir.
func PresetsPath() string { return filepath.Join(DataDir(), "presets.yaml") }

// Load reads and parses the config file at path. If path is empty,
// ConfigPath() is used. A missing file yields defaults; a corrupt file
// warns and yields defaults rather than failing.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("Warning: failed to parse config %s: %v\n", path, err)
		fmt.Println("Using default configuration.")
		cfg = DefaultConfig()
	}
	return &cfg, nil
}

// Save writes cfg to path as indented JSON. If path is empty,
// ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
