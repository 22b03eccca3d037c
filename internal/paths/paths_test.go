// SPDX-License-Identifier: AGPL-3.0-or-later
package paths

import (
	"path/filepath"
	"testing"
)

func TestConfigFileEnvOverride(t *testing.T) {
	t.Setenv(envConfigPath, "/tmp/custom.yaml")
	path, enabled := ConfigFile()
	if !enabled || path != "/tmp/custom.yaml" {
		t.Fatalf("override not honored: %q %v", path, enabled)
	}
}

func TestConfigFileEmptyDisables(t *testing.T) {
	t.Setenv(envConfigPath, "")
	if _, enabled := ConfigFile(); enabled {
		t.Fatalf("empty CM_CONFIG_PATH must disable the config file")
	}
}

func TestDataDirPrecedence(t *testing.T) {
	t.Setenv(envDataDir, "/srv/cm-data")
	if got := DataDir(); got != "/srv/cm-data" {
		t.Fatalf("CM_DATA_DIR not honored: %q", got)
	}

	t.Setenv(envDataDir, "")
	t.Setenv(envXDGDataHome, "/home/u/.xdg")
	if got := DataDir(); got != filepath.Join("/home/u/.xdg", appDirName) {
		t.Fatalf("XDG_DATA_HOME not honored: %q", got)
	}
}
