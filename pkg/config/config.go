package config

import (
	"os"
	"path/filepath"

	"github.com/csm10495/deskband/pkg/paths"
	"github.com/csm10495/deskband/pkg/shell"
)

// Band is the fallback geometry of the drawing surface, used when the
// daemon's stdout is not a terminal.
type Band struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the daemon configuration.
type Config struct {
	SocketPath string `yaml:"socket_path"` // control endpoint
	PidPath    string `yaml:"pid_path"`
	Band       Band   `yaml:"band"`
	Shell      string `yaml:"shell"`    // interpreter for message actions
	LogPath    string `yaml:"log_path"` // gated protocol log sink
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.SocketPath == "" {
		cfg.SocketPath = paths.SocketPath()
	}
	if cfg.PidPath == "" {
		cfg.PidPath = paths.PidPath()
	}
	if cfg.Band.Width == 0 {
		cfg.Band.Width = 120
	}
	if cfg.Band.Height == 0 {
		cfg.Band.Height = 1
	}
	if cfg.Shell == "" {
		cfg.Shell = shell.DefaultShell
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(os.TempDir(), "deskband.log")
	}
}
