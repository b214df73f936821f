// Package cli implements the roomsmith command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/roomsmith/roomsmith/pkg/buildinfo"
	"github.com/roomsmith/roomsmith/pkg/describe"
	"github.com/roomsmith/roomsmith/pkg/engine"
	"github.com/roomsmith/roomsmith/pkg/httputil"
	"github.com/roomsmith/roomsmith/pkg/pipeline"
	"github.com/roomsmith/roomsmith/pkg/scene"
	"github.com/roomsmith/roomsmith/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "roomsmith"

	// defaultCacheTTL controls how long prompt responses stay fresh.
	defaultCacheTTL = 7 * 24 * time.Hour
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "roomsmith",
		Short:        "Roomsmith turns room descriptions into collision-free 3D layouts",
		Long:         `Roomsmith is a CLI tool that turns natural-language interior descriptions into scene graphs, resolves them into collision-free 3D layouts, and drives the resulting placement plans into a running engine.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.describeCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerConfig selects the backends wired into a pipeline runner.
type runnerConfig struct {
	storeSpec string // layout store URL or path ("" disables persistence)
	engineURL string // engine bridge base URL ("" records instead of applying)
	noCache   bool   // disable the prompt response cache
	describer bool   // build a text-understanding client (needs OPENAI_API_KEY)
}

// newRunner creates a pipeline runner for CLI use. The returned cleanup
// function closes whatever backends were opened and must always be called.
func (c *CLI) newRunner(cfg runnerConfig) (*pipeline.Runner, func(), error) {
	var describer *describe.Client
	if cfg.describer {
		var err error
		describer, err = describe.NewClient(describe.Config{
			Cache:  newPromptCache(cfg.noCache),
			Logger: c.Logger,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	st, err := store.Open(cfg.storeSpec)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	var binding engine.Binding
	if cfg.engineURL != "" {
		binding, err = engine.NewBridge(cfg.engineURL, c.Logger)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
	}

	cleanup := func() {
		if binding != nil {
			binding.Close()
		}
		st.Close()
	}
	return pipeline.NewRunner(describer, st, binding, c.Logger), cleanup, nil
}

// newPromptCache builds the file cache for prompt responses.
// Failures degrade to no caching rather than failing the command.
func newPromptCache(noCache bool) *httputil.Cache {
	if noCache {
		return nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil
	}
	cache, err := httputil.NewCache(dir, defaultCacheTTL)
	if err != nil {
		return nil
	}
	return cache
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/roomsmith/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDefaultsPath returns the user defaults file (~/.config/roomsmith/defaults.toml),
// or "" when it does not exist.
func configDefaultsPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	path := filepath.Join(configHome, appName, "defaults.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// defaultStoreSpec returns the default layout store location
// ($XDG_DATA_HOME/roomsmith/layout.json).
func defaultStoreSpec() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, appName, "layout.json")
}

// resolveStoreSpec applies the default store location when no flag was given.
func resolveStoreSpec(flag string) string {
	if flag != "" {
		return flag
	}
	return defaultStoreSpec()
}

// resolveEngineURL falls back to ROOMSMITH_ENGINE_URL when no flag was given.
func resolveEngineURL(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("ROOMSMITH_ENGINE_URL")
}

// =============================================================================
// Options Helpers
// =============================================================================

// loadDefaults builds the size tables, applying a TOML override file on
// top of the built-ins. An explicit path must exist; without one the user
// config file is applied when present.
func loadDefaults(path string) (*scene.Defaults, error) {
	d := scene.Builtin()
	if path == "" {
		path = configDefaultsPath()
	}
	if path == "" {
		return d, nil
	}
	if err := d.LoadFile(path); err != nil {
		return nil, fmt.Errorf("load defaults %s: %w", path, err)
	}
	return d, nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
