package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/m3rciful/pickbot/catalog"
	coreconfig "github.com/m3rciful/pickbot/core/config"
	coredatabase "github.com/m3rciful/pickbot/core/database"
	"github.com/m3rciful/pickbot/flow"
)

// PickerConfig tunes the conversation behaviour.
type PickerConfig struct {
	// ResetMode controls what /change does to the stored ranking: "soft"
	// keeps it until overwritten, "full" clears it.
	ResetMode string `yaml:"reset_mode" envconfig:"PICKER_RESET_MODE"`
}

// Config aggregates core settings with the picker specific sections.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Catalog  catalog.Config      `yaml:"catalog"`
	Picker   PickerConfig        `yaml:"picker"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// ResetMode maps the configured string onto a flow.ResetMode.
func (c *Config) ResetMode() (flow.ResetMode, error) {
	switch c.Picker.ResetMode {
	case "", string(flow.ResetSoft):
		return flow.ResetSoft, nil
	case string(flow.ResetFull):
		return flow.ResetFull, nil
	default:
		return "", fmt.Errorf("invalid picker.reset_mode %q; allowed: soft, full", c.Picker.ResetMode)
	}
}

// LoadConfig reads YAML from path, overlays environment variables, and validates.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env overrides: %w", err)
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if _, err := cfg.ResetMode(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
