// Package config reads and writes the TOML configuration file shared by the
// CLI and server entrypoints (spec.md §6).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the fields external entrypoints need to reach a store and
// sign commits on a user's behalf: the server to write to, the Agent URL,
// and its base64 private key.
type Config struct {
	Server     string `toml:"server"`
	Agent      string `toml:"agent"`
	PrivateKey string `toml:"private_key"`
}

// DefaultDir returns ~/.config/atomic.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "atomic"), nil
}

// DefaultPath returns ~/.config/atomic/config.toml.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config from %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse toml config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path, overwriting any existing file, creating its
// parent directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir for %s: %w", path, err)
	}
	b, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config to %s: %w", path, err)
	}
	return nil
}
