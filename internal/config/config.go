// Package config loads the taskdeck client configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root client configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Session Session `yaml:"session"`
	State   State   `yaml:"state"`
}

// Server points at the task server.
type Server struct {
	URL string `yaml:"url"`
}

// Session describes the command spawned inside a task's interactive
// session. The command runs in the task's worktree with TASKDECK_PROJECT
// and TASKDECK_TASK set.
type Session struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// State locates the local state database (persisted project selection).
type State struct {
	Path string `yaml:"path"`
}

// DefaultPath returns the standard config location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "taskdeck.yaml"
	}
	return filepath.Join(dir, "taskdeck", "config.yaml")
}

// Load reads and parses the config at path, applies defaults, and
// validates. A missing file yields defaults only if the server URL is
// later provided by flag; Load itself requires the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with defaults applied and no server URL.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Session.Command == "" {
		c.Session.Command = "agent"
	}
	if c.State.Path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			c.State.Path = filepath.Join(dir, "taskdeck", "state.db")
		} else {
			c.State.Path = "taskdeck-state.db"
		}
	}
}

// Validate checks the config is usable. Exported so flag overrides can be
// re-checked after they are applied.
func (c *Config) Validate() error { return c.validate() }

func (c *Config) validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	return nil
}
