// Package config loads centerbox settings from a TOML file.
//
// The file is looked up in order: an explicit path (the --config flag),
// $CENTERBOX_CONFIG, $XDG_CONFIG_HOME/centerbox/config.toml and
// ~/.config/centerbox/config.toml. A missing default file is not an error;
// built-in defaults apply. Command-line flags override file settings.
//
// Example:
//
//	preset = "wide"
//
//	[presets.wide]
//	width = 30
//	max_lines = 6
//
//	[search]
//	metric = "spaces"
//	skip_blank_lines = true
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	prefix = "centerbox"
//	ttl = "72h"
//
//	[server]
//	addr = ":8080"
//	timeout = "10s"
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/centerbox/pkg/cache"
	"github.com/matzehuels/centerbox/pkg/errors"
	"github.com/matzehuels/centerbox/pkg/pipeline"
)

const (
	appName = "centerbox"

	// EnvPath names the environment variable holding a config file path.
	EnvPath = "CENTERBOX_CONFIG"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds every setting read from the config file.
type Config struct {
	Preset  string            `toml:"preset"`
	Presets map[string]Preset `toml:"presets"`
	Search  Search            `toml:"search"`
	Cache   Cache             `toml:"cache"`
	Server  Server            `toml:"server"`
}

// Preset is a named box size.
type Preset struct {
	Width    int `toml:"width"`
	MaxLines int `toml:"max_lines"`
}

// Search holds search and ranking settings.
type Search struct {
	Metric         string `toml:"metric"`
	SkipBlankLines bool   `toml:"skip_blank_lines"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
	TTL      string `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr    string `toml:"addr"`
	Timeout string `toml:"timeout"`
}

// BuiltinPresets returns the presets that exist without a config file.
func BuiltinPresets() map[string]Preset {
	return map[string]Preset{
		pipeline.PresetDefault:  {Width: pipeline.DefaultWidth, MaxLines: pipeline.DefaultMaxLines},
		pipeline.PresetExtended: {Width: pipeline.ExtendedWidth, MaxLines: pipeline.ExtendedMaxLines},
	}
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var c Config
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Preset == "" {
		c.Preset = pipeline.PresetDefault
	}
	if c.Presets == nil {
		c.Presets = make(map[string]Preset)
	}
	for name, p := range BuiltinPresets() {
		if _, ok := c.Presets[name]; !ok {
			c.Presets[name] = p
		}
	}
	if c.Search.Metric == "" {
		c.Search.Metric = pipeline.DefaultMetric
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Timeout == "" {
		c.Server.Timeout = "30s"
	}
}

// Load reads the config file. An empty path searches the default locations
// and returns the defaults when none exists. The returned path is the file
// that was read, or empty.
func Load(path string) (Config, string, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = Path(); err != nil {
			return Default(), "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return Default(), "", nil
		}
		return Config{}, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	c, err := Parse(string(data))
	if err != nil {
		return Config{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return c, path, nil
}

// Parse decodes a TOML document, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(data string) (Config, error) {
	var c Config
	md, err := toml.Decode(data, &c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	c.setDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Path returns the config file location from the environment or the XDG
// default. The file may not exist.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if _, err := c.ResolvePreset(c.Preset); err != nil {
		return err
	}
	for name, p := range c.Presets {
		if err := errors.ValidateDimensions(p.Width, p.MaxLines); err != nil {
			return errors.New(errors.ErrCodeInvalidPreset, "preset %q: %s", name, errors.UserMessage(err))
		}
	}
	if err := pipeline.ValidateMetric(c.Search.Metric); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if _, err := c.ServerTimeout(); err != nil {
		return err
	}
	return nil
}

// ResolvePreset returns the preset called name.
func (c Config) ResolvePreset(name string) (Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return Preset{}, errors.New(errors.ErrCodeInvalidPreset, "unknown preset %q (must be one of: %s)", name, strings.Join(c.PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames returns the preset names in sorted order.
func (c Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CacheTTL returns the cache entry lifetime; [cache.TTLBoxes] when unset.
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.TTLBoxes, nil
	}
	return parseDuration("cache.ttl", c.Cache.TTL)
}

// ServerTimeout returns the per-request search timeout.
func (c Config) ServerTimeout() (time.Duration, error) {
	return parseDuration("server.timeout", c.Server.Timeout)
}

// Options returns pipeline options for the selected preset and search
// settings.
func (c Config) Options() (pipeline.Options, error) {
	p, err := c.ResolvePreset(c.Preset)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Width:          p.Width,
		MaxLines:       p.MaxLines,
		Metric:         c.Search.Metric,
		SkipBlankLines: c.Search.SkipBlankLines,
	}, nil
}

func parseDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", key)
	}
	if d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %s", key, s)
	}
	return d, nil
}
