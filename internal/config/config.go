// Package config loads the driver configuration from a YAML file. Every
// field has a usable default, so a missing file yields a playable setup.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/windward/internal/sim"
)

// Config is the full driver configuration.
type Config struct {
	// Seed drives world generation and the wind. Zero is a valid seed.
	Seed uint64 `yaml:"seed"`

	// World is the generation input surface.
	World sim.Setting `yaml:"world"`

	// ListenAddr is the HTTP/WebSocket bind address.
	ListenAddr string `yaml:"listen_addr"`

	// JournalPath is the SQLite telemetry file. Empty disables journaling.
	JournalPath string `yaml:"journal_path"`

	// SnapshotEverySecs is the interval between journaled state snapshots.
	SnapshotEverySecs int `yaml:"snapshot_every_secs"`

	// Debugging holds the development cheats.
	Debugging sim.DebuggingConf `yaml:"debugging"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Seed: 1,
		World: sim.Setting{
			EdgeLength:      128,
			ResourceDensity: 1,
		},
		ListenAddr:        ":8080",
		JournalPath:       "data/windward.db",
		SnapshotEverySecs: 30,
	}
}

// Load reads the configuration from path. A missing file returns the
// defaults; a present but malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.World.EdgeLength == 0 {
		return errors.New("world.edge_length must be positive")
	}
	if c.World.ResourceDensity < 0 {
		return errors.New("world.resource_density must not be negative")
	}
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if c.SnapshotEverySecs <= 0 {
		return errors.New("snapshot_every_secs must be positive")
	}
	return nil
}
