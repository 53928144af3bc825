// Package config handles runner configuration (config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/humanflow/pkg/humanize"
)

// Config represents the runner configuration file.
type Config struct {
	// Appium server connection and lifecycle.
	Appium AppiumConfig `yaml:"appium"`

	// Device capabilities for the session.
	Device DeviceConfig `yaml:"device"`

	// Humanized pacing. Unset ranges fall back to defaults.
	Delays humanize.Profile `yaml:"delays"`

	// Wait tuning, in milliseconds.
	ElementTimeoutMs int `yaml:"elementTimeout"` // Per-step default wait deadline
	PollIntervalMs   int `yaml:"pollInterval"`   // Initial poll interval
	RunTimeoutMs     int `yaml:"runTimeout"`     // Whole-run deadline (0 = none)

	// Values injected into flow env expansion, e.g. credentials.
	Env map[string]string `yaml:"env"`

	// Jitter seed; 0 picks a time-based one.
	Seed int64 `yaml:"seed"`
}

// AppiumConfig holds server settings.
type AppiumConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	AutoStart bool   `yaml:"autoStart"` // Spawn the server if nothing answers
}

// DeviceConfig holds session capabilities.
type DeviceConfig struct {
	Platform    string `yaml:"platform"` // android, ios
	Name        string `yaml:"name"`
	UDID        string `yaml:"udid"`
	AppPackage  string `yaml:"appPackage"`
	AppActivity string `yaml:"appActivity"`
	NoReset     bool   `yaml:"noReset"`

	// Extra raw capabilities merged over the derived ones.
	Capabilities map[string]interface{} `yaml:"capabilities"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Appium: AppiumConfig{
			Host:      "127.0.0.1",
			Port:      4723,
			AutoStart: true,
		},
		Device: DeviceConfig{
			Platform: "android",
			NoReset:  true,
		},
		Delays:           humanize.DefaultProfile(),
		ElementTimeoutMs: 10000,
		PollIntervalMs:   200,
	}
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
// A missing file is not an error; defaults apply.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// Validate checks the configuration for values the runner cannot work with.
func (c *Config) Validate() error {
	if c.Appium.Port < 0 || c.Appium.Port > 65535 {
		return fmt.Errorf("invalid appium port: %d", c.Appium.Port)
	}
	if c.ElementTimeoutMs < 0 {
		return fmt.Errorf("elementTimeout must not be negative")
	}
	if c.PollIntervalMs < 0 {
		return fmt.Errorf("pollInterval must not be negative")
	}
	if c.RunTimeoutMs < 0 {
		return fmt.Errorf("runTimeout must not be negative")
	}
	switch c.Device.Platform {
	case "", "android", "ios":
	default:
		return fmt.Errorf("unknown platform: %s", c.Device.Platform)
	}
	return nil
}

// ServerURL returns the Appium base URL.
func (c *Config) ServerURL() string {
	return fmt.Sprintf("http://%s:%d", c.Appium.Host, c.Appium.Port)
}
