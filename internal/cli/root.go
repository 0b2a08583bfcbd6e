// Package cli implements the raytone command-line interface.
//
// The commands load RayTone projects (.rt files), run their control graph
// headless, export the graph, and serve a running patch over HTTP. The CLI
// is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - play: Run a project at its tempo, optionally with a live monitor
//   - inspect: List the units and cables of a project
//   - dot: Export the unit graph as DOT, SVG, PDF or PNG
//   - serve: Run a patch behind the HTTP API
//   - programs: List the voice programs in the program directory
//   - config, autosave: Manage the configuration and the autosave project
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/raytone/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "RayTone runs patches of control, voice and graphics units",
		Long:         `RayTone is a patching environment in which control units drive voice programs and graphics shaders. This CLI runs and inspects RayTone projects headless.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint+")")

	root.AddCommand(c.playCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.programsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.autosaveCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}
