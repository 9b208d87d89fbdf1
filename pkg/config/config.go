// Package config loads the daemon's TOML configuration file.
//
// All settings have working defaults; a missing file is not an error unless
// the user asked for a specific path.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	charmlog "github.com/charmbracelet/log"

	"github.com/barline/barline/pkg/errors"
	"github.com/barline/barline/pkg/ipc"
)

// Config holds the daemon settings.
type Config struct {
	// SocketPath overrides the default per-user socket path.
	SocketPath string `toml:"socket_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// HTTPAddr, when set, enables the read-only HTTP inspector on that
	// address (e.g. "127.0.0.1:9269").
	HTTPAddr string `toml:"http_addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		SocketPath: ipc.DefaultSocketPath(),
		LogLevel:   "info",
	}
}

// Load reads a TOML config file and fills in defaults for anything left
// unset. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot parse config %s", path)
	}

	if cfg.SocketPath == "" {
		cfg.SocketPath = ipc.DefaultSocketPath()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level converts LogLevel to a charmbracelet/log level.
func (c Config) Level() (charmlog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return charmlog.DebugLevel, nil
	case "", "info":
		return charmlog.InfoLevel, nil
	case "warn":
		return charmlog.WarnLevel, nil
	case "error":
		return charmlog.ErrorLevel, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid log_level: %q", c.LogLevel)
	}
}
