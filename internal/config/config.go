package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the CLI defaults. Every field can be overridden by a flag;
// missing files are not an error, the zero value just applies.
type Config struct {
	Protocol    string `koanf:"protocol"`     // "", "iterm2", "kitty", or "sixel"
	SixelColors int    `koanf:"sixel_colors"` // palette size, 2-256
	CellWidth   int    `koanf:"cell_width"`   // measured cell pixel size, 0 = assume defaults
	CellHeight  int    `koanf:"cell_height"`
	Verbose     bool   `koanf:"verbose"`
	NoFallback  bool   `koanf:"no_fallback"` // skip the half-block rendering when no protocol is found
}

// Load reads configuration from the default paths, later paths winning.
func Load() (*Config, error) {
	return loadFrom(configPaths()...)
}

func loadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configPaths() []string {
	paths := []string{}

	// 1. ~/.config/splash/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "splash", "config.toml"))
	}

	// 2. ./splash.toml (pwd, highest priority)
	paths = append(paths, "splash.toml")

	return paths
}
