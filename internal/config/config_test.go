package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Convert.Normals {
		t.Error("expected normals to be enabled by default")
	}
	if cfg.Convert.Lenient {
		t.Error("expected lenient to be false by default")
	}

	if cfg.Output.FloatVerb != "e" {
		t.Errorf("expected float verb 'e', got %s", cfg.Output.FloatVerb)
	}
	if cfg.Output.Precision != 7 {
		t.Errorf("expected precision 7, got %d", cfg.Output.Precision)
	}
	if cfg.Output.CompactExt != "bObj" {
		t.Errorf("expected compact ext 'bObj', got %s", cfg.Output.CompactExt)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"bad verb", func(c *Config) { c.Output.FloatVerb = "x" }, "float_verb"},
		{"long verb", func(c *Config) { c.Output.FloatVerb = "eg" }, "float_verb"},
		{"bad precision", func(c *Config) { c.Output.Precision = -5 }, "precision"},
		{"empty ext", func(c *Config) { c.Output.CompactExt = "" }, "compact_ext"},
		{"dotted ext", func(c *Config) { c.Output.CompactExt = ".bObj" }, "compact_ext"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected %q in error, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "objconv.yaml")

	yamlContent := `
convert:
  normals: false
  lenient: true

output:
  float_verb: g
  precision: -1
  compact_ext: bobj

logging:
  level: "debug"
  log_file: "objconv.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := decodeFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Convert.Normals {
		t.Error("expected normals to be false")
	}
	if !cfg.Convert.Lenient {
		t.Error("expected lenient to be true")
	}
	if cfg.Output.FloatVerb != "g" {
		t.Errorf("expected float verb 'g', got %s", cfg.Output.FloatVerb)
	}
	if cfg.Output.Precision != -1 {
		t.Errorf("expected precision -1, got %d", cfg.Output.Precision)
	}
	if cfg.Output.CompactExt != "bobj" {
		t.Errorf("expected compact ext 'bobj', got %s", cfg.Output.CompactExt)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "objconv.log" {
		t.Errorf("expected log file 'objconv.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objconv.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  precision: 9\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := decodeFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Unset keys keep their defaults
	if cfg.Output.Precision != 9 {
		t.Errorf("expected precision 9, got %d", cfg.Output.Precision)
	}
	if cfg.Output.FloatVerb != "e" {
		t.Errorf("expected default float verb 'e', got %s", cfg.Output.FloatVerb)
	}
	if !cfg.Convert.Normals {
		t.Error("expected default normals to be kept")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
output:
  precision: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := decodeFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := decodeFile(cfg, "/nonexistent/path/objconv.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestDecodeFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objconv.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  precison: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	err := decodeFile(Default(), configPath)
	if err == nil {
		t.Fatal("expected error for misspelled key, got nil")
	}
	if !strings.Contains(err.Error(), "precison") {
		t.Errorf("expected error to name the unknown key, got %v", err)
	}
}

func TestDecodeFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objconv.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := decodeFile(cfg, configPath); err != nil {
		t.Fatalf("expected empty file to load, got %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults to be kept, got %+v", cfg)
	}
}

func TestLoadFrom(t *testing.T) {
	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}
	if cfg.Source != "" || *cfg != *Default() {
		t.Errorf("expected plain defaults, got %+v", cfg)
	}

	configPath := filepath.Join(t.TempDir(), "objconv.yaml")
	if err := os.WriteFile(configPath, []byte("convert:\n  lenient: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg, err = LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Source != configPath {
		t.Errorf("expected source %s, got %s", configPath, cfg.Source)
	}
	if !cfg.Convert.Lenient {
		t.Error("expected lenient to be true")
	}

	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("uses XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())

	if path := searchConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("objconv.yaml", []byte("output:\n  precision: 3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := searchConfigFile(); path == "" {
		t.Error("expected to find objconv.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "no-normals flag",
			setup: func() { *flagNoNormals = true },
			verify: func(cfg *Config) {
				if cfg.Convert.Normals {
					t.Error("expected normals to be disabled")
				}
			},
			teardown: func() { *flagNoNormals = false },
		},
		{
			name:  "lenient flag",
			setup: func() { *flagLenient = true },
			verify: func(cfg *Config) {
				if !cfg.Convert.Lenient {
					t.Error("expected lenient to be enabled")
				}
			},
			teardown: func() { *flagLenient = false },
		},
		{
			name: "float and precision flags",
			setup: func() {
				*flagFloat = "g"
				*flagPrecision = -1
			},
			verify: func(cfg *Config) {
				if cfg.Output.FloatVerb != "g" {
					t.Errorf("expected float verb 'g', got %s", cfg.Output.FloatVerb)
				}
				if cfg.Output.Precision != -1 {
					t.Errorf("expected precision -1, got %d", cfg.Output.Precision)
				}
			},
			teardown: func() {
				*flagFloat = ""
				*flagPrecision = precisionUnset
			},
		},
		{
			name:  "ext flag",
			setup: func() { *flagExt = "bin" },
			verify: func(cfg *Config) {
				if cfg.Output.CompactExt != "bin" {
					t.Errorf("expected ext 'bin', got %s", cfg.Output.CompactExt)
				}
			},
			teardown: func() { *flagExt = "" },
		},
		{
			name:  "unset precision keeps config",
			setup: func() {},
			verify: func(cfg *Config) {
				if cfg.Output.Precision != 7 {
					t.Errorf("expected precision 7, got %d", cfg.Output.Precision)
				}
			},
			teardown: func() {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objconv.yaml")

	yamlContent := `
output:
  float_verb: f
  precision: 4
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagPrecision = 2
	defer func() {
		*flagConfig = ""
		*flagPrecision = precisionUnset
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Precision from flag, verb from file
	if cfg.Output.Precision != 2 {
		t.Errorf("expected precision 2 from flag, got %d", cfg.Output.Precision)
	}
	if cfg.Output.FloatVerb != "f" {
		t.Errorf("expected float verb 'f' from file, got %s", cfg.Output.FloatVerb)
	}
}

func TestLoadEnvConfig(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	envPath := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(envPath, []byte("output:\n  precision: 5\n"), 0644); err != nil {
		t.Fatalf("failed to write env config: %v", err)
	}
	if err := os.WriteFile("objconv.yaml", []byte("output:\n  precision: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write local config: %v", err)
	}
	t.Setenv(EnvConfig, envPath)

	// The environment wins over the search path
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Source != envPath || cfg.Output.Precision != 5 {
		t.Errorf("expected precision 5 from %s, got %d from %s", envPath, cfg.Output.Precision, cfg.Source)
	}

	// The flag wins over the environment
	*flagConfig = "objconv.yaml"
	defer func() { *flagConfig = "" }()
	cfg, err = Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Output.Precision != 3 {
		t.Errorf("expected precision 3 from flag config, got %d", cfg.Output.Precision)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	*flagFloat = "q"
	defer func() { *flagFloat = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid float verb")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "objconv.yaml")

	cfg := Default()
	cfg.Output.Precision = 5
	cfg.Convert.Lenient = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := decodeFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Output.Precision != 5 || !loaded.Convert.Lenient {
		t.Errorf("saved config not reloaded: %+v", loaded)
	}
}

func TestSave(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("uses XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := Default().Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != filepath.Join(ConfigDir(), "config.yaml") {
		t.Errorf("unexpected save path %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved config missing: %v", err)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}
