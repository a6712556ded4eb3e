// Package config handles converter configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all converter settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	// Source is the file the settings were read from, empty for defaults.
	Source string `yaml:"-"`
}

// ConvertConfig selects the format variant and how strictly bObj is read.
type ConvertConfig struct {
	Normals bool `yaml:"normals"` // vn lines and the bObj normal section
	Lenient bool `yaml:"lenient"` // keep short bObj records zero-filled instead of failing
}

// OutputConfig controls generated files.
type OutputConfig struct {
	FloatVerb  string `yaml:"float_verb"`  // strconv verb: e, E, f, g or G
	Precision  int    `yaml:"precision"`   // digits after the point, -1 for shortest
	CompactExt string `yaml:"compact_ext"` // extension of derived bObj paths
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Normals: true,
			Lenient: false,
		},
		Output: OutputConfig{
			FloatVerb:  "e",
			Precision:  7,
			CompactExt: "bObj",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Output.FloatVerb) != 1 || !strings.Contains("eEfgG", c.Output.FloatVerb) {
		errs = append(errs, fmt.Errorf("output.float_verb: unsupported verb %q", c.Output.FloatVerb))
	}
	if c.Output.Precision < -1 {
		errs = append(errs, fmt.Errorf("output.precision: must be -1 or greater, got %d", c.Output.Precision))
	}
	if c.Output.CompactExt == "" || strings.ContainsAny(c.Output.CompactExt, `./\`) {
		errs = append(errs, fmt.Errorf("output.compact_ext: invalid extension %q", c.Output.CompactExt))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}
