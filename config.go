package asciify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds process-wide converter configuration, loadable from YAML.
// It covers the binary, its environment overrides, the cache capacity
// target, and the default option bundle used for rendered documents.
type Config struct {
	Binary        string       `yaml:"binary"`
	Env           []string     `yaml:"env"`
	CacheCapacity int          `yaml:"cache_capacity"`
	Render        RenderConfig `yaml:"render"`
}

// RenderConfig mirrors the Options fields that make sense as defaults.
type RenderConfig struct {
	Color     bool `yaml:"color"`
	Braille   bool `yaml:"braille"`
	Dither    bool `yaml:"dither"`
	Complex   bool `yaml:"complex"`
	Threshold int  `yaml:"threshold"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Binary:        DefaultBinary,
		CacheCapacity: DefaultCacheCapacity,
		Render: RenderConfig{
			Braille:   true,
			Dither:    true,
			Complex:   true,
			Threshold: 100,
		},
	}
}

// LoadConfig reads a YAML config file, falling back to defaults when path is
// empty or the file does not exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	return cfg, nil
}

// RenderOptions turns the configured render defaults into an Options value.
// The display echo stays off for rendered documents.
func (c *Config) RenderOptions() Options {
	return Options{
		Color:     c.Render.Color,
		Braille:   c.Render.Braille,
		Dither:    c.Render.Dither,
		Complex:   c.Render.Complex,
		Threshold: c.Render.Threshold,
		NoDisplay: true,
	}
}
