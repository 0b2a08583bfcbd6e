package cli

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/raytone/pkg/config"
	"github.com/matzehuels/raytone/pkg/engine"
	"github.com/matzehuels/raytone/pkg/observability"
	"github.com/matzehuels/raytone/pkg/program"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "raytone"

	defaultConfigHint = "~/.config/raytone/config.toml"
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

	configPath string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Configuration
// =============================================================================

// configFile returns the --config path, or the default location.
func (c *CLI) configFile() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.Path()
}

// loadConfig reads the configuration file with environment overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	path, err := c.configFile()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "path", path, "program_dir", cfg.ProgramDir)
	return cfg, nil
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine opens the program library and builds an engine configured
// from cfg. When path is set the project there is loaded into it.
func (c *CLI) newEngine(cfg config.Config, path string, hooks observability.Hooks) (*engine.Engine, *program.Library, error) {
	lib, err := program.OpenLibrary(cfg.ProgramDir, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	eng := engine.New(engine.Options{
		Logger:    c.Logger,
		Programs:  lib,
		Hooks:     hooks,
		BPM:       cfg.BPM,
		LocalGain: cfg.LocalGain,
		DataDir:   cfg.DataDir,
	})
	eng.SetVolume(cfg.Volume)

	if path == "" {
		return eng, lib, nil
	}
	hs, err := eng.Load(path)
	if err != nil && len(hs) == 0 {
		return nil, nil, err
	}
	if err != nil {
		c.Logger.Warn("some units could not be loaded", "err", err)
	}
	return eng, lib, nil
}
