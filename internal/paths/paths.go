// SPDX-License-Identifier: AGPL-3.0-or-later

// Package paths centralises cm config and data directory resolution.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appDirName     = "cm"
	envConfigPath  = "CM_CONFIG_PATH"
	envDataDir     = "CM_DATA_DIR"
	envXDGDataHome = "XDG_DATA_HOME"
	configFileName = "cm.yaml"
)

// ConfigFile resolves the cm.yaml location. Order of precedence:
//  1. CM_CONFIG_PATH, where an empty value disables the config file
//     entirely (enabled=false).
//  2. The platform user config directory (e.g. ~/.config/cm.yaml).
func ConfigFile() (path string, enabled bool) {
	if v, ok := os.LookupEnv(envConfigPath); ok {
		if v == "" {
			return "", false
		}
		return v, true
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

// DataDir returns the directory cm uses for persistence (the run
// journal). Order of precedence:
//  1. CM_DATA_DIR environment variable.
//  2. Platform defaults:
//     * POSIX: $XDG_DATA_HOME/cm, or ~/.local/share/cm
//     * Windows: %LocalAppData%\cm
//  3. Fallback: the OS temp dir.
func DataDir() string {
	if dir := os.Getenv(envDataDir); dir != "" {
		return filepath.Clean(dir)
	}

	if runtime.GOOS == "windows" {
		if base := os.Getenv("LOCALAPPDATA"); base != "" {
			return filepath.Join(base, appDirName)
		}
	}

	if xdg := os.Getenv(envXDGDataHome); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "share", appDirName)
	}

	return filepath.Join(os.TempDir(), appDirName)
}
