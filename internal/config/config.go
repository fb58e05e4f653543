// Package config loads the settings shared by the notion tools.
//
// Settings come from, in increasing priority: defaults, a YAML file, a .env
// file, the environment, then command line flags (applied by the caller).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/maruel/notion/internal/notion"
	"gopkg.in/yaml.v3"
)

// Config holds client and logging settings.
type Config struct {
	Token             string  `yaml:"token" json:"token" jsonschema:"description=Notion integration token"`
	BaseURL           string  `yaml:"base_url,omitempty" json:"base_url,omitempty" jsonschema:"description=Notion API base URL"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty" json:"requests_per_second,omitempty" jsonschema:"description=Request rate limit"`
	MaxRetries        int     `yaml:"max_retries,omitempty" json:"max_retries,omitempty" jsonschema:"description=Retries on 429 and 5xx; 0 or -1 disables"`
	Timeout           string  `yaml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"description=Per-request timeout as a Go duration (e.g. 30s)"`
	LogLevel          string  `yaml:"log_level,omitempty" json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Default returns the default configuration, without a token.
func Default() *Config {
	return &Config{
		BaseURL:           notion.BaseURL,
		RequestsPerSecond: notion.DefaultRequestsPerSecond,
		MaxRetries:        notion.DefaultMaxRetries,
		Timeout:           notion.DefaultTimeout.String(),
		LogLevel:          "info",
	}
}

// Load reads the YAML file at path on top of the defaults, then applies the
// .env file found in dotEnvDir and the environment.
//
// An empty path or a missing file is not an error. Load does not validate;
// call Validate once flags are applied.
func Load(path, dotEnvDir string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // User-specified config path
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	env, err := LoadDotEnv(dotEnvDir)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(func(k string) string { return env[k] })
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) applyEnv(get func(string) string) {
	if v := get("NOTION_TOKEN"); v != "" {
		c.Token = v
	}
	if v := get("NOTION_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := get("NOTION_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.New("token is required (--token, NOTION_TOKEN or config file)")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %g", c.RequestsPerSecond)
	}
	if c.MaxRetries < -1 {
		return fmt.Errorf("max_retries must be -1 or more, got %d", c.MaxRetries)
	}
	if _, err := c.timeout(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *Config) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return notion.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}

// ClientOptions maps the configuration onto notion.ClientOptions.
func (c *Config) ClientOptions(logger *slog.Logger) (*notion.ClientOptions, error) {
	timeout, err := c.timeout()
	if err != nil {
		return nil, err
	}
	// notion.ClientOptions reads 0 as the default; here 0 means no retries.
	retries := c.MaxRetries
	if retries == 0 {
		retries = -1
	}
	return &notion.ClientOptions{
		BaseURL:           c.BaseURL,
		HTTPClient:        &http.Client{Timeout: timeout},
		Logger:            logger,
		RequestsPerSecond: c.RequestsPerSecond,
		MaxRetries:        retries,
	}, nil
}

// NewClient validates the configuration and creates a client from it.
func (c *Config) NewClient(logger *slog.Logger) (*notion.Client, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts, err := c.ClientOptions(logger)
	if err != nil {
		return nil, err
	}
	return notion.NewClient(c.Token, opts), nil
}

// ParseLevel converts a log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q", s)
	}
}

// Schema returns the JSON Schema of the configuration file.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	s := r.ReflectFromType(reflect.TypeFor[Config]())
	s.Title = "notion configuration"
	return json.MarshalIndent(s, "", "  ")
}
