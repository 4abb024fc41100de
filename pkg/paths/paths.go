// Package paths provides centralized path resolution for deskband's config
// and runtime files.
//
// Layout (XDG-style):
//
//	Config:  ~/.config/deskband/config.yaml  (override: DESKBAND_CONFIG_DIR)
//	Runtime: /tmp/deskband-*                 (unchanged)
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	configDirOnce   sync.Once
	configDirCached string
)

// ConfigDir resolves the config directory.
// Priority: DESKBAND_CONFIG_DIR env > ~/.config/deskband/
func ConfigDir() string {
	configDirOnce.Do(func() {
		if env := os.Getenv("DESKBAND_CONFIG_DIR"); env != "" {
			configDirCached = env
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				configDirCached = "."
			} else {
				configDirCached = filepath.Join(home, ".config", "deskband")
			}
		}
	})
	return configDirCached
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SocketPath returns the control socket path. Keyed by uid so concurrent
// users on one host do not collide.
func SocketPath() string {
	return fmt.Sprintf("/tmp/deskband-%d.sock", os.Getuid())
}

// PidPath returns the pidfile path.
func PidPath() string {
	return fmt.Sprintf("/tmp/deskband-%d.pid", os.Getuid())
}

// EnsureConfigDir creates the config directory if it doesn't exist and returns its path.
func EnsureConfigDir() (string, error) {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir %s: %w", dir, err)
	}
	return dir, nil
}

// ResetForTest clears cached values so tests can re-run resolution logic.
// Only use in tests.
func ResetForTest() {
	configDirOnce = sync.Once{}
	configDirCached = ""
}
