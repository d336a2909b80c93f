// Package config reads the optional helium.toml project manifest.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const ManifestName = "helium.toml"

type Config struct {
	Entry        string   `toml:"entry"`
	IncludePaths []string `toml:"include_paths"`
}

// Load parses a manifest file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Include paths are relative to the manifest's directory.
	base := filepath.Dir(path)
	for i, p := range cfg.IncludePaths {
		if !filepath.IsAbs(p) {
			cfg.IncludePaths[i] = filepath.Join(base, p)
		}
	}
	return &cfg, nil
}

// Discover looks for a manifest in dir; a missing manifest yields an empty
// configuration.
func Discover(dir string) (*Config, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err != nil {
		return &Config{}, nil
	}
	return Load(path)
}
