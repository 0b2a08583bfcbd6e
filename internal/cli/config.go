package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/raytone/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// configShowCommand prints the effective configuration.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (file plus environment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printKeyValue(w, "bpm", strconv.Itoa(cfg.BPM))
			printKeyValue(w, "volume", fmt.Sprintf("%g", cfg.Volume))
			printKeyValue(w, "local_gain", fmt.Sprintf("%g", cfg.LocalGain))
			printKeyValue(w, "autosave_interval", cfg.AutoSaveInterval().String())
			printKeyValue(w, "data_dir", cfg.DataDir)
			printKeyValue(w, "program_dir", cfg.ProgramDir)
			printKeyValue(w, "store.backend", cfg.Store.Backend)
			printKeyValue(w, "server.addr", cfg.Server.Addr)
			return nil
		},
	}
}

// configPathCommand prints the configuration file location.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configInitCommand writes the default configuration.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if _, err := os.Stat(path); err == nil && !force {
				printWarning(w, "Config already exists (use --force to overwrite)")
				printFile(w, path)
				return nil
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			printSuccess(w, "Wrote default configuration")
			printFile(w, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
