// Package config loads optional scenemap configuration from a TOML file.
// Every field has a usable default; a missing or unreadable file yields the
// defaults silently.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds scenemap configuration.
type Config struct {
	Interaction InteractionConfig `toml:"interaction"`
	Filter      FilterConfig      `toml:"filter"`
}

// InteractionConfig tunes the interaction controller.
type InteractionConfig struct {
	DoubleClickWindowMS int     `toml:"double_click_window_ms"`
	ZoomStep            float64 `toml:"zoom_step"`
	DimOpacity          float64 `toml:"dim_opacity"`
}

// FilterConfig extends the identity resolver's filter table.
type FilterConfig struct {
	ExtraBuiltinTypes      []string `toml:"extra_builtin_types"`
	ExtraBlockedNamespaces []string `toml:"extra_blocked_namespaces"`
	ExtraSignificantCalls  []string `toml:"extra_significant_calls"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Interaction: InteractionConfig{
			DoubleClickWindowMS: 300,
			ZoomStep:            1.1,
			DimOpacity:          0.2,
		},
	}
}

// Load reads a config file, returning defaults if it doesn't exist.
func Load(path string) *Config {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = toml.Unmarshal(data, cfg)
	cfg.applyFloors()
	return cfg
}

// applyFloors keeps hand-edited values usable: zero or negative tuning
// values fall back to the defaults.
func (c *Config) applyFloors() {
	def := Default()
	if c.Interaction.DoubleClickWindowMS <= 0 {
		c.Interaction.DoubleClickWindowMS = def.Interaction.DoubleClickWindowMS
	}
	if c.Interaction.ZoomStep <= 1.0 {
		c.Interaction.ZoomStep = def.Interaction.ZoomStep
	}
	if c.Interaction.DimOpacity <= 0 || c.Interaction.DimOpacity >= 1 {
		c.Interaction.DimOpacity = def.Interaction.DimOpacity
	}
}

// DoubleClickWindow returns the double-click window as a duration.
func (c *Config) DoubleClickWindow() time.Duration {
	return time.Duration(c.Interaction.DoubleClickWindowMS) * time.Millisecond
}
