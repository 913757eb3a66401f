// Package config loads the observer's YAML configuration file. The CLI
// flags that override it are defined by the cmd/ entrypoints.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the observer's full runtime configuration.
type Config struct {
	Serial struct {
		Device string `yaml:"device"`
		Baud   int    `yaml:"baud"`
	} `yaml:"serial"`

	TCP struct {
		Address string `yaml:"address"`
	} `yaml:"tcp"`

	Diag struct {
		Enabled bool   `yaml:"enabled"`
		Address string `yaml:"address"`
	} `yaml:"diag"`

	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`

	Output struct {
		Path string `yaml:"path"` // "-" means stdout
	} `yaml:"output"`
}

// Default returns a Config with the observer's baseline settings: no
// transport configured (the caller must set one of Serial.Device or
// TCP.Address), diagnostics disabled, output to stdout.
func Default() Config {
	var c Config
	c.Serial.Baud = 38400
	c.Diag.Address = "127.0.0.1:9090"
	c.Output.Path = "-"
	return c
}

// Load reads and parses a YAML configuration file, starting from Default
// so an omitted section keeps its default value.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}
