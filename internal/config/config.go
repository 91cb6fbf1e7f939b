// Package config loads user settings from layered TOML files.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "musichub"

type Config struct {
	LibrarySources []string `koanf:"library_sources"` // folders imported into the catalog
	Database       string   `koanf:"database"`        // empty means the XDG data dir

	Playback PlaybackConfig `koanf:"playback"`
	Download DownloadConfig `koanf:"download"`
	Log      LogConfig      `koanf:"log"`
	Notify   ToggleConfig   `koanf:"notify"`
	MPRIS    ToggleConfig   `koanf:"mpris"`
	UI       UIConfig       `koanf:"ui"`
}

// PlaybackConfig holds session owner settings.
type PlaybackConfig struct {
	PollIntervalMs int  `koanf:"poll_interval_ms"` // default: 500
	LoadTimeoutMs  int  `koanf:"load_timeout_ms"`  // default: 10000
	WrapAround     bool `koanf:"wrap_around"`      // next/previous wrap at catalog ends
}

// DownloadConfig holds download workflow settings.
type DownloadConfig struct {
	Directory        string `koanf:"directory"`          // default: $XDG_DATA_HOME/musichub/downloads
	Workers          int    `koanf:"workers"`            // default: 2
	MaxAttempts      int    `koanf:"max_attempts"`       // default: 5
	InitialBackoffMs int    `koanf:"initial_backoff_ms"` // default: 1000
	MaxBackoffMs     int    `koanf:"max_backoff_ms"`     // default: 60000
	RequireNetwork   *bool  `koanf:"require_network"`    // default: true
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // default: "info"
	JSON  bool   `koanf:"json"`
	File  string `koanf:"file"` // empty means stderr
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Icons string `koanf:"icons"` // "nerd", "unicode" or "none"; default: "unicode"
}

// ToggleConfig enables or disables an optional surface.
type ToggleConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

func Load() (*Config, error) {
	return LoadFrom(Paths()...)
}

// LoadFrom loads the given files in order, later files overriding earlier
// ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}
	cfg.Database = expandPath(cfg.Database)
	cfg.Download.Directory = expandPath(cfg.Download.Directory)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

// Paths returns the config file locations, lowest priority first.
func Paths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/musichub/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback
	if cfg.PollIntervalMs <= 0 {
		cfg.PollIntervalMs = 500
	}
	if cfg.LoadTimeoutMs <= 0 {
		cfg.LoadTimeoutMs = 10000
	}
	return cfg
}

func (p PlaybackConfig) PollInterval() time.Duration {
	return time.Duration(p.PollIntervalMs) * time.Millisecond
}

func (p PlaybackConfig) LoadTimeout() time.Duration {
	return time.Duration(p.LoadTimeoutMs) * time.Millisecond
}

// GetDownloadConfig returns the download configuration with defaults applied.
func (c *Config) GetDownloadConfig() DownloadConfig {
	cfg := c.Download
	if cfg.Directory == "" {
		cfg.Directory = filepath.Join(xdg.DataHome, appName, "downloads")
	}
	if cfg.Workers <= 0 || cfg.Workers > 16 {
		cfg.Workers = 2
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.InitialBackoffMs <= 0 {
		cfg.InitialBackoffMs = 1000
	}
	if cfg.MaxBackoffMs < cfg.InitialBackoffMs {
		cfg.MaxBackoffMs = max(60000, cfg.InitialBackoffMs)
	}
	if cfg.RequireNetwork == nil {
		cfg.RequireNetwork = ptr(true)
	}
	return cfg
}

func (d DownloadConfig) InitialBackoff() time.Duration {
	return time.Duration(d.InitialBackoffMs) * time.Millisecond
}

func (d DownloadConfig) MaxBackoff() time.Duration {
	return time.Duration(d.MaxBackoffMs) * time.Millisecond
}

// NetworkRequired reports whether remote downloads wait for connectivity.
func (d DownloadConfig) NetworkRequired() bool {
	return d.RequireNetwork == nil || *d.RequireNetwork
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// GetUIConfig returns the UI configuration with defaults applied.
func (c *Config) GetUIConfig() UIConfig {
	cfg := c.UI
	cfg.Icons = strings.ToLower(strings.TrimSpace(cfg.Icons))
	if cfg.Icons == "" {
		cfg.Icons = "unicode"
	}
	return cfg
}

// NotifyEnabled reports whether the desktop notification surface is on.
func (c *Config) NotifyEnabled() bool {
	return c.Notify.On()
}

// MPRISEnabled reports whether the MPRIS surface is on.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.On()
}

func (t ToggleConfig) On() bool {
	return t.Enabled == nil || *t.Enabled
}

func ptr[T any](v T) *T { return &v }
