package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the greenlake client configuration.
type Config struct {
	Platform PlatformConfig    `yaml:"platform" validate:"required"`
	Regions  map[string]string `yaml:"regions" validate:"required,min=1,dive,url"`
	Retry    RetryConfig       `yaml:"retry"`
	Polling  PollingConfig     `yaml:"polling"`
	Limits   LimitsConfig      `yaml:"limits"`
	Logging  LoggingConfig     `yaml:"logging"`
}

// PlatformConfig holds platform API endpoint and credential settings.
type PlatformConfig struct {
	Endpoint     string `yaml:"endpoint" validate:"required,url"`
	TokenURL     string `yaml:"token_url" validate:"required,url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Region       string `yaml:"region"` // default region for COM resources
}

// RetryConfig holds transport retry settings.
type RetryConfig struct {
	Attempts       int `yaml:"attempts"`
	MaxIntervalSec int `yaml:"max_interval_sec"`
}

// PollingConfig holds status-poll settings for deploy/test operations.
type PollingConfig struct {
	IntervalSec int `yaml:"interval_sec"`
}

// LimitsConfig holds batch size settings.
type LimitsConfig struct {
	MaxBatchKeys int `yaml:"max_batch_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = 3
	}
	if c.Retry.MaxIntervalSec <= 0 {
		c.Retry.MaxIntervalSec = 10
	}
	if c.Polling.IntervalSec <= 0 {
		c.Polling.IntervalSec = 1
	}
	if c.Limits.MaxBatchKeys <= 0 {
		c.Limits.MaxBatchKeys = 5
	}
	if c.Platform.ClientID == "" {
		c.Platform.ClientID = os.Getenv("GLP_CLIENT_ID")
	}
	if c.Platform.ClientSecret == "" {
		c.Platform.ClientSecret = os.Getenv("GLP_CLIENT_SECRET")
	}
}

var validate = validator.New()

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if c.Platform.Region != "" {
		if _, ok := c.Regions[c.Platform.Region]; !ok {
			return fmt.Errorf("platform.region %q is not declared in regions", c.Platform.Region)
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf(
			"logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
