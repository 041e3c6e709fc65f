// Package cli implements the centerbox command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/centerbox/internal/config"
	"github.com/matzehuels/centerbox/pkg/buildinfo"
	"github.com/matzehuels/centerbox/pkg/cache"
	"github.com/matzehuels/centerbox/pkg/errors"
	"github.com/matzehuels/centerbox/pkg/observability"
	"github.com/matzehuels/centerbox/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "centerbox"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// In, Out and Err are the standard streams. Boxes and loop messages go
	// to Out; logs go to the logger.
	In  io.Reader
	Out io.Writer
	Err io.Writer

	configPath string
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.boxCommand()
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/centerbox/config.toml)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c.registerHooks()
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// registerHooks routes search and cache events to the logger.
func (c *CLI) registerHooks() {
	hooks := &logHooks{logger: c.Logger}
	observability.SetSearchHooks(hooks)
	observability.SetCacheHooks(hooks)
}

// loadConfig reads the config file selected by --config or the environment.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, keyer, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	if runner.TTL, err = cfg.CacheTTL(); err != nil {
		runner.Close()
		return nil, err
	}
	return runner, nil
}

// newCache opens the configured cache backend. Cache failures never stop a
// search: an unusable backend degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, cache.Keyer, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Cache.Prefix)
	}

	if noCache {
		return cache.NewNullCache(), keyer, nil
	}

	switch cfg.Cache.Backend {
	case config.BackendRedis:
		rc, err := openRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "code", errors.GetCode(err), "error", err)
			return cache.NewNullCache(), keyer, nil
		}
		return rc, keyer, nil
	case config.BackendNone:
		return cache.NewNullCache(), keyer, nil
	}

	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), keyer, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, keyer, nil
}

// openRedis connects to the redis cache at url. Connection failures are
// NETWORK_ERROR, anything else about the url is INVALID_CONFIG.
func openRedis(ctx context.Context, url string) (*cache.RedisCache, error) {
	rc, err := cache.NewRedisCache(ctx, url)
	switch {
	case err == nil:
		return rc, nil
	case stderrors.Is(err, cache.ErrNetwork):
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis")
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.redis_url")
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: cache.dir from the config, or
// the XDG standard (~/.cache/centerbox/).
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
