// Package config loads the daemon's YAML configuration file and provides
// the defaults used when no file is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the daemon's full runtime configuration.
type Config struct {
	SocketPath           string        `yaml:"socket_path"`
	CodexHome            string        `yaml:"codex_home"`
	StaleAfter           time.Duration `yaml:"stale_after"`
	DiscoverWindow       time.Duration `yaml:"discover_window"`
	RescanInterval       time.Duration `yaml:"rescan_interval"`
	BootstrapReplayLines int           `yaml:"bootstrap_replay_lines"`
	DebugServer          DebugServerConfig `yaml:"debug_server"`
	LogLevel             string        `yaml:"log_level"`
}

// DebugServerConfig controls the optional read-only HTTP+WS introspection
// server. It is disabled by default.
type DebugServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

func defaultConfig() *Config {
	return &Config{
		SocketPath:           defaultSocketPath(),
		CodexHome:            "",
		StaleAfter:           10 * time.Minute,
		DiscoverWindow:       10 * time.Minute,
		RescanInterval:       2 * time.Second,
		BootstrapReplayLines: 4,
		DebugServer: DebugServerConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    47291,
		},
		LogLevel: "warn",
	}
}

// Load reads and parses the YAML config file at path, applying it on top of
// the defaults so unspecified fields keep their default value.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = defaultSocketPath()
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns the default config if the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	return Load(path)
}

func defaultConfigDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

func defaultSocketPath() string {
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return filepath.Join(v, "aura.sock")
	}
	return filepath.Join("/tmp", "aura.sock")
}

// DefaultConfigPath returns the default XDG-compliant config file path.
func DefaultConfigPath() string {
	return filepath.Join(defaultConfigDir(), "aura", "config.yaml")
}

// Diff compares two configs and returns human-readable descriptions of what
// changed, for logging on SIGHUP reload. Only fields safe to pick up at
// runtime are compared.
func Diff(old, new *Config) []string {
	var changes []string

	if old.StaleAfter != new.StaleAfter {
		changes = append(changes, fmt.Sprintf("stale_after: %s → %s", old.StaleAfter, new.StaleAfter))
	}
	if old.DiscoverWindow != new.DiscoverWindow {
		changes = append(changes, fmt.Sprintf("discover_window: %s → %s", old.DiscoverWindow, new.DiscoverWindow))
	}
	if old.RescanInterval != new.RescanInterval {
		changes = append(changes, fmt.Sprintf("rescan_interval: %s → %s", old.RescanInterval, new.RescanInterval))
	}
	if old.BootstrapReplayLines != new.BootstrapReplayLines {
		changes = append(changes, fmt.Sprintf("bootstrap_replay_lines: %d → %d", old.BootstrapReplayLines, new.BootstrapReplayLines))
	}
	if old.DebugServer != new.DebugServer {
		changes = append(changes, fmt.Sprintf("debug_server: %+v → %+v", old.DebugServer, new.DebugServer))
	}
	if old.LogLevel != new.LogLevel {
		changes = append(changes, fmt.Sprintf("log_level: %s → %s", old.LogLevel, new.LogLevel))
	}

	return changes
}
