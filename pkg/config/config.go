// Package config loads the exporter configuration.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddress string          `yaml:"listen_address"`
	LogLevel      string          `yaml:"log_level"`
	LogEncoding   string          `yaml:"log_encoding"`
	WireGuard     WireGuardConfig `yaml:"wireguard"`
}

type WireGuardConfig struct {
	BinaryPath string `yaml:"binary_path"`
	// Interface config file used to resolve friendly peer names.
	// Empty disables name resolution.
	ConfigPath           string `yaml:"config_path"`
	ScrapeTimeoutSeconds int    `yaml:"scrape_timeout_seconds"`
}

// Timeout returns the bound for a single wg invocation.
func (c WireGuardConfig) Timeout() time.Duration {
	return time.Duration(c.ScrapeTimeoutSeconds) * time.Second
}

func Default() *Config {
	return &Config{
		ListenAddress: "127.0.0.1:9586",
		LogLevel:      "info",
		LogEncoding:   "json",
		WireGuard: WireGuardConfig{
			BinaryPath:           "/usr/bin/wg",
			ScrapeTimeoutSeconds: 5,
		},
	}
}

// Load reads the YAML config file at path on top of the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open the config file")
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "unable to parse the config file '%s'", path)
	}

	return cfg, nil
}
