package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/visitor-counter/internal/counter"
	"github.com/raysh454/visitor-counter/internal/logging"
	"github.com/raysh454/visitor-counter/internal/webclient"
)

// Environment variables that override values from the config file.
const (
	EnvEndpoint   = "VISITOR_COUNTER_ENDPOINT"
	EnvElementID  = "VISITOR_COUNTER_ELEMENT_ID"
	EnvBackend    = "VISITOR_COUNTER_BACKEND"
	EnvTimeoutSec = "VISITOR_COUNTER_TIMEOUT_S"
	EnvListenAddr = "VISITOR_COUNTER_LISTEN_ADDR"
	EnvPagePath   = "VISITOR_COUNTER_PAGE"
	EnvLogLevel   = "VISITOR_COUNTER_LOG_LEVEL"
)

// Config is the runtime configuration shared by the CLI commands.
type Config struct {
	Counter   counter.Config   `yaml:"counter"`
	WebClient webclient.Config `yaml:"webclient"`

	// ListenAddr is the address `serve` binds to.
	ListenAddr string `yaml:"listen_addr"`

	// PagePath is the HTML file rendered by `render` and `serve`.
	PagePath string `yaml:"page"`

	// LogComponent is the component name on every log line.
	LogComponent string `yaml:"log_component"`

	// LogLevel is the minimum level written: debug|info|warn|error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config populated with development defaults. The
// endpoint is left empty and must come from a file, env or flag.
func DefaultConfig() *Config {
	return &Config{
		Counter:      counter.DefaultConfig(),
		WebClient:    webclient.DefaultConfig(),
		ListenAddr:   ":8080",
		PagePath:     "index.html",
		LogComponent: "visitor-counter",
		LogLevel:     "info",
	}
}

// LoadConfig reads the YAML file at path (skipped when path is empty) on top
// of DefaultConfig, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Counter.EndpointURL = getEnv(EnvEndpoint, c.Counter.EndpointURL)
	c.Counter.ElementID = getEnv(EnvElementID, c.Counter.ElementID)
	c.WebClient.Client = webclient.Client(getEnv(EnvBackend, string(c.WebClient.Client)))
	c.ListenAddr = getEnv(EnvListenAddr, c.ListenAddr)
	c.PagePath = getEnv(EnvPagePath, c.PagePath)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)

	if value, ok := os.LookupEnv(EnvTimeoutSec); ok {
		secs, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || secs < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", EnvTimeoutSec, value)
		}
		c.WebClient.Timeout = time.Duration(secs) * time.Second
	}
	return nil
}

// Validate checks the counter settings and the backend name.
func (c *Config) Validate() error {
	if err := c.Counter.Validate(); err != nil {
		return err
	}
	switch c.WebClient.Client {
	case "", webclient.ClientNetHTTP, webclient.ClientChromedp:
	default:
		return fmt.Errorf("unknown webclient backend %q", c.WebClient.Client)
	}
	if c.WebClient.Timeout < 0 {
		return errors.New("webclient timeout must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
