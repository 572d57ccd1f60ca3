// internal/config/config.go
//
// Console configuration. A config.yaml next to the binary (or under
// ~/.tableside/) supplies the backend address and screen behavior;
// everything has a usable default so a missing file still boots the
// console against localhost.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL        = "http://localhost:5000/api"
	defaultPollSeconds    = 3
	defaultTimeoutSeconds = 10
	defaultCurrency       = "₹"
)

// ServerConfig points the console at the POS backend.
type ServerConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// PollConfig controls the order-monitoring refresh loop.
type PollConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// DisplayConfig holds presentation knobs.
type DisplayConfig struct {
	Currency string `yaml:"currency"`
}

// AlertConfig configures the new-order audio cue. With an empty
// command the console falls back to the terminal bell.
type AlertConfig struct {
	Command string `yaml:"command"`
	Sound   string `yaml:"sound"`
}

// Config models config.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Poll    PollConfig    `yaml:"poll"`
	Display DisplayConfig `yaml:"display"`
	Alert   AlertConfig   `yaml:"alert"`
}

// Default returns a fully-populated localhost configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads, normalizes, and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Find locates a config file: ./config.yaml first, then
// ~/.tableside/config.yaml. fs.ErrNotExist means "use defaults".
func Find() (string, error) {
	candidates := []string{"config.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".tableside", "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

func (c *Config) applyDefaults() {
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaultBaseURL
	}
	if c.Server.TimeoutSeconds <= 0 {
		c.Server.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Poll.IntervalSeconds <= 0 {
		c.Poll.IntervalSeconds = defaultPollSeconds
	}
	if c.Display.Currency == "" {
		c.Display.Currency = defaultCurrency
	}
}

func (c *Config) normalize() {
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	c.Alert.Command = strings.TrimSpace(c.Alert.Command)
	c.Alert.Sound = strings.TrimSpace(c.Alert.Sound)
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return errors.New("server.base_url must be an http(s) URL")
	}
	if c.Alert.Command == "" && c.Alert.Sound != "" {
		return errors.New("alert.sound requires alert.command")
	}
	return nil
}

// PollInterval returns the monitor refresh period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalSeconds) * time.Second
}

// Timeout returns the per-request network timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}
