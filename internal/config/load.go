package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding a config file path.
const EnvConfig = "OBJCONV_CONFIG"

const (
	appName        = "objconv"
	localFileName  = appName + ".yaml"
	globalFileName = "config.yaml"
)

// Load builds the effective configuration: defaults, then the config file,
// then command-line flags. The file is the -config flag if set, else
// $OBJCONV_CONFIG, else the first file found by searchConfigFile.
func Load() (*Config, error) {
	cfg, err := LoadFrom(configFile())
	if err != nil {
		return nil, err
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFrom returns the defaults overlaid with the YAML file at path.
// An empty path yields the defaults. Unknown keys are rejected.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if err := decodeFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// configFile picks the file Load reads. Explicit paths are returned even
// when they do not exist so the caller reports them.
func configFile() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}
	return searchConfigFile()
}

// searchConfigFile returns the first existing file among ./objconv.yaml
// and the user config directory, or "".
func searchConfigFile() string {
	for _, path := range []string{
		localFileName,
		filepath.Join(ConfigDir(), globalFileName),
	} {
		if st, err := os.Stat(path); err == nil && st.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory of the tool.
func ConfigDir() string {
	var base string
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, "Library", "Application Support")
	case "windows":
		base = os.Getenv("APPDATA")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appName)
}

// decodeFile merges the YAML document at path into cfg. Keys missing from
// the file keep their current values; an empty file changes nothing.
func decodeFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
