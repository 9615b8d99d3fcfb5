package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/c9s/harmonic/pkg/harmonic"
)

// SourceConfig selects how raw price rows are decoded from a CSV file.
type SourceConfig struct {
	// Format names the decoder: simple, binance or metatrader.
	Format string `json:"format" yaml:"format"`

	// Path is the default input file used when the command line does not
	// give one.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ServerConfig carries the HTTP API settings.
type ServerConfig struct {
	Bind string `json:"bind" yaml:"bind"`
}

// LogConfig controls the optional rotating file log.
type LogConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`
	Dir        string `json:"dir,omitempty" yaml:"dir,omitempty"`
	MaxSizeMB  int    `json:"maxSizeMB,omitempty" yaml:"maxSizeMB,omitempty"`
	MaxBackups int    `json:"maxBackups,omitempty" yaml:"maxBackups,omitempty"`
}

// Config is the top level configuration file structure.
type Config struct {
	// Symbol labels scan reports. It is descriptive only.
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`

	Scan   harmonic.Config `json:"scan" yaml:"scan"`
	Source SourceConfig    `json:"source" yaml:"source"`
	Server ServerConfig    `json:"server" yaml:"server"`
	Log    LogConfig       `json:"log" yaml:"log"`
}

var sourceFormats = map[string]struct{}{
	"simple":     {},
	"binance":    {},
	"metatrader": {},
}

// Defaults fills unset fields on every section.
func (c *Config) Defaults() {
	c.Scan.Defaults()

	if c.Source.Format == "" {
		c.Source.Format = "simple"
	}
	if c.Server.Bind == "" {
		c.Server.Bind = ":8080"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	if err := c.Scan.Validate(); err != nil {
		return err
	}

	if _, ok := sourceFormats[c.Source.Format]; !ok {
		return errors.Errorf("unknown source format %q", c.Source.Format)
	}

	return nil
}

// Parse decodes, defaults and validates a raw YAML document.
func Parse(content []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(content, &c); err != nil {
		return nil, errors.Wrap(err, "cannot parse config")
	}

	c.Defaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Load reads a YAML configuration file. A missing path yields a pure
// default configuration so every command works without a file.
func Load(configFile string) (*Config, error) {
	if configFile == "" {
		var c Config
		c.Defaults()
		return &c, nil
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %s", configFile)
	}

	return Parse(content)
}
