package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/cellconsole/errors"
	"github.com/grovetools/cellconsole/pkg/paths"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames lists the file names searched for, in precedence order.
var configNames = []string{
	"cellconsole.yml",
	"cellconsole.yaml",
	"cellconsole.toml",
	".cellconsole.yml",
	".cellconsole.yaml",
}

// EnvOverrides are read from CELLCONSOLE_* variables and win over the file.
type EnvOverrides struct {
	Host           string `envconfig:"HOST"`
	AnalyzeTimeout string `envconfig:"ANALYZE_TIMEOUT"`
	PollInterval   string `envconfig:"POLL_INTERVAL"`
	ServerAddr     string `envconfig:"SERVER_ADDR"`
	UIMode         string `envconfig:"UI_MODE"`
}

// Load reads, validates and defaults a single configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, formatOf(path))
	if err != nil {
		if cellErr, ok := errors.As(err); ok {
			cellErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads the nearest configuration file from the working
// directory. Without one, the defaults plus environment overrides are used.
func LoadDefault() (*Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}
	return LoadFrom(cwd)
}

// LoadFrom behaves like LoadDefault starting the search at startDir. The
// returned path is empty when no file was found.
func LoadFrom(startDir string) (*Config, string, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeConfigNotFound) {
			return nil, "", err
		}
		cfg := &Config{}
		if err := cfg.finish(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadFromBytes parses configuration in the given format ("yaml" or "toml").
func LoadFromBytes(data []byte, format string) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	if format == "toml" {
		// Re-encode through yaml so the yaml tags stay the single source of field names.
		var raw map[string]interface{}
		if err := toml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		var err error
		if expanded, err = yaml.Marshal(raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to convert TOML configuration")
		}
	}

	var config Config
	if err := yaml.Unmarshal(expanded, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(&config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}

	if err := config.finish(); err != nil {
		return nil, err
	}
	return &config, nil
}

// finish applies environment overrides and defaults, then validates.
func (c *Config) finish() error {
	if err := c.ApplyEnv(); err != nil {
		return err
	}
	c.SetDefaults()
	return c.Validate()
}

// ApplyEnv copies any CELLCONSOLE_* overrides into the config.
func (c *Config) ApplyEnv() error {
	var env EnvOverrides
	if err := envconfig.Process("cellconsole", &env); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read environment overrides")
	}
	if env.Host != "" {
		c.Backend.Host = env.Host
	}
	if env.AnalyzeTimeout != "" {
		c.Backend.AnalyzeTimeout = env.AnalyzeTimeout
	}
	if env.PollInterval != "" {
		c.Polling.Interval = env.PollInterval
	}
	if env.ServerAddr != "" {
		c.Server.Addr = env.ServerAddr
	}
	if env.UIMode != "" {
		c.UI.Mode = env.UIMode
	}
	return nil
}

// FindConfigFile searches for a configuration file with the following precedence:
// 1. Current directory up to filesystem root
// 2. XDG config directory (~/.config/cellconsole/)
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		if path := firstExisting(dir); path != "" {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if global := paths.ConfigDir(); global != "" {
		if path := firstExisting(global); path != "" {
			return path, nil
		}
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

func firstExisting(dir string) string {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func formatOf(path string) string {
	if strings.HasSuffix(path, ".toml") {
		return "toml"
	}
	return "yaml"
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}
