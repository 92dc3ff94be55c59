package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"devc/pkg/extension"
	"devc/pkg/validate"
)

// Config represents the structure of a devc.yaml configuration file.
type Config struct {
	// Defaults override extension argument defaults, keyed by argument name.
	Defaults     map[string]any `yaml:"defaults"`
	TemplatesDir string         `yaml:"templates-dir"`
	LogLevel     string         `yaml:"log-level"`
	Interactive  *bool          `yaml:"interactive"`
}

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = "devc.yaml"

// DefaultLogLevel is used when log-level is not configured.
const DefaultLogLevel = "info"

// Load reads and parses the config file at the given path.
// If the file does not exist and the path is the default, an empty config is returned without error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 -- config file path is intentionally user-specified via CLI flag
	if err != nil {
		if os.IsNotExist(err) && path == DefaultConfigFile {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error in %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that all configured values are well-formed.
func (c *Config) Validate() error {
	if c.LogLevel != "" {
		if err := validate.LogLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log-level: %w", err)
		}
	}

	if c.TemplatesDir != "" {
		info, err := os.Stat(c.TemplatesDir)
		if err != nil {
			return fmt.Errorf("templates-dir %s does not exist", c.TemplatesDir)
		}
		if !info.IsDir() {
			return fmt.Errorf("templates-dir %s is not a directory", c.TemplatesDir)
		}
	}

	for key, v := range c.Defaults {
		if key == "" || strings.HasPrefix(key, "-") {
			return fmt.Errorf("defaults: invalid argument name %q", key)
		}
		switch v.(type) {
		case map[string]any:
			return fmt.Errorf("defaults: %s must be a scalar or a list", key)
		}
	}

	return nil
}

// GetDefaults returns the argument defaults in the shape extensions expect:
// lists become []string and scalars other than bools become strings.
func (c *Config) GetDefaults() extension.Defaults {
	out := extension.Defaults{}
	if c == nil {
		return out
	}
	for k, v := range c.Defaults {
		switch val := v.(type) {
		case nil:
		case bool:
			out[k] = val
		case []any:
			list := make([]string, 0, len(val))
			for _, e := range val {
				list = append(list, fmt.Sprint(e))
			}
			out[k] = list
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

// GetTemplatesDir returns the configured template override directory, or "".
func (c *Config) GetTemplatesDir() string {
	if c != nil {
		return c.TemplatesDir
	}
	return ""
}

// GetLogLevel returns the configured log level, falling back to default.
func (c *Config) GetLogLevel() string {
	if c != nil && c.LogLevel != "" {
		return c.LogLevel
	}
	return DefaultLogLevel
}

// GetInteractive reports whether the interactive menu is enabled. It is on
// unless the file disables it.
func (c *Config) GetInteractive() bool {
	if c != nil && c.Interactive != nil {
		return *c.Interactive
	}
	return true
}

// ScanConfigFile finds the value of --config-file in argv before flags are
// parsed, so defaults are known when extension arguments are bound.
func ScanConfigFile(argv []string) string {
	for i, tok := range argv {
		if tok == "--" {
			break
		}
		if v, ok := strings.CutPrefix(tok, "--config-file="); ok {
			return v
		}
		if tok == "--config-file" && i+1 < len(argv) {
			return argv[i+1]
		}
	}
	return DefaultConfigFile
}
