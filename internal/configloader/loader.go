// SPDX-License-Identifier: AGPL-3.0-or-later

// Package configloader reads the user's cm.yaml: persistent defaults
// applied below the explicit command line. The file lives in the platform
// config directory and can be redirected (or disabled with an empty
// value) through CM_CONFIG_PATH.
package configloader

import (
	"fmt"
	"os"

	"github.com/cm-org/cm/internal/paths"
	"gopkg.in/yaml.v3"
)

// Config mirrors cm.yaml: a global section plus per-subcommand sections.
type Config struct {
	Source string `yaml:"source,omitempty"`
	Binary string `yaml:"binary,omitempty"`
	Config string `yaml:"config,omitempty"`
	Quirks string `yaml:"quirks,omitempty"`

	Configure ConfigureSection `yaml:"configure,omitempty"`
	Lit       LitSection       `yaml:"lit,omitempty"`
}

// ConfigureSection holds configure-subcommand defaults.
type ConfigureSection struct {
	Generator  string   `yaml:"generator,omitempty"`
	PrefixPath []string `yaml:"prefix_path,omitempty"`
	Linker     string   `yaml:"linker,omitempty"`
}

// LitSection holds lit-subcommand defaults.
type LitSection struct {
	UpdateResultDB *bool `yaml:"update_resultdb,omitempty"`
}

// Load reads the effective cm.yaml. A missing file is not an error; a
// present but unparseable file is, since silently ignoring a typo'd
// config is worse than failing loudly.
func Load() (Config, error) {
	path, enabled := paths.ConfigFile()
	if !enabled {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
