package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the service settings loadable from a YAML file.
// Zero-value fields fall back to defaults; CLI flags override both.
type Config struct {
	ListenAddr           string `yaml:"listen_addr"`
	RedisAddr            string `yaml:"redis_addr"`
	BadgerPath           string `yaml:"badger_path"`
	ImportTimeoutSeconds int    `yaml:"import_timeout_seconds"`
}

func Default() Config {
	return Config{
		ListenAddr:           ":8080",
		RedisAddr:            "localhost:6379",
		BadgerPath:           "./badger-data",
		ImportTimeoutSeconds: 30,
	}
}

// ImportTimeout converts the configured seconds into a duration.
func (c Config) ImportTimeout() time.Duration {
	return time.Duration(c.ImportTimeoutSeconds) * time.Second
}

// Load reads the YAML file at path. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	def := Default()
	if c.ListenAddr == "" {
		c.ListenAddr = def.ListenAddr
	}
	if c.RedisAddr == "" {
		c.RedisAddr = def.RedisAddr
	}
	if c.BadgerPath == "" {
		c.BadgerPath = def.BadgerPath
	}
	if c.ImportTimeoutSeconds <= 0 {
		c.ImportTimeoutSeconds = def.ImportTimeoutSeconds
	}
	return c
}
