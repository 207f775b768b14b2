// Package config loads user preferences from ~/.sortable/config.yaml.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// DB is the SQLite file holding the tree. Defaults to <config dir>/tree.sqlite.
	DB string `yaml:"db,omitempty"`
	// Addr is the web host bind address.
	Addr string `yaml:"addr,omitempty"`
	// Format is the default CLI output format (json|edn|yaml).
	Format string `yaml:"format,omitempty"`
	// Deferred is passed through to web clients with every value notification.
	Deferred bool `yaml:"deferred,omitempty"`

	TUI TUIConfig `yaml:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `yaml:"glyphs,omitempty"`
}

const (
	DefaultAddr   = "127.0.0.1:3335"
	DefaultFormat = "json"
)

func Dir() (string, error) {
	// Keeps tests away from the real home directory.
	if v := strings.TrimSpace(os.Getenv("SORTABLE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sortable"), nil
}

// Path returns the config file location; SORTABLE_CONFIG overrides it.
func Path() (string, error) {
	if v := strings.TrimSpace(os.Getenv("SORTABLE_CONFIG")); v != "" {
		return v, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config at path (or the default path when empty) and fills in
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg := &Config{}
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if strings.TrimSpace(c.DB) == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		c.DB = filepath.Join(dir, "tree.sqlite")
	}
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = DefaultAddr
	}
	if strings.TrimSpace(c.Format) == "" {
		c.Format = DefaultFormat
	}
	return nil
}

// Save writes cfg to path with a temp file + rename.
func Save(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "config.yaml.*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
