// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Output      Output   `yaml:"output,omitempty" json:"output"`
	Sources     []Source `yaml:"sources" json:"sources"`
	Concurrency int      `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
}

// Output controls how normalized collections are written.
type Output struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Indent string `yaml:"indent,omitempty" json:"indent,omitempty"`
}

// Source is one GeoJSON input. Exactly one of Path, URL or Inline is set.
type Source struct {
	// GeoJSON defined directly in the config file
	Inline map[string]any `yaml:"inline,omitempty" json:"-"`

	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path,omitempty" json:"-"`
	URL  string `yaml:"url,omitempty" json:"-"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks source definitions and output settings.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "", "json", "yaml", "wkt":
	default:
		return fmt.Errorf("output.format: unsupported value %q", c.Output.Format)
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("sources[%d]: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("sources[%d]: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true

		set := 0
		if s.Path != "" {
			set++
		}
		if s.URL != "" {
			set++
		}
		if s.Inline != nil {
			set++
		}
		if set != 1 {
			return fmt.Errorf("source %q: exactly one of path, url or inline must be set", s.Name)
		}
	}

	return nil
}

// Lookup returns the source with the given name.
func (c *Config) Lookup(name string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}
