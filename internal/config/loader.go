package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr           string            `json:"addr" yaml:"addr" toml:"addr"`
	CacheDir       string            `json:"cache_dir" yaml:"cache_dir" toml:"cache_dir"`
	TempDir        string            `json:"temp_dir" yaml:"temp_dir" toml:"temp_dir"`
	MaxWorkers     int               `json:"max_workers" yaml:"max_workers" toml:"max_workers"`
	DefaultService string            `json:"default_service" yaml:"default_service" toml:"default_service"`
	LameFlags      string            `json:"lame_flags" yaml:"lame_flags" toml:"lame_flags"`
	Aliases        map[string]string `json:"aliases" yaml:"aliases" toml:"aliases"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
