package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/raytone/pkg/project"
)

// autosaveCommand creates the autosave management command.
func (c *CLI) autosaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autosave",
		Short: "Manage the autosave project",
	}

	cmd.AddCommand(c.autosavePathCommand())
	cmd.AddCommand(c.autosaveClearCommand())

	return cmd
}

// autosavePathCommand prints the autosave project file.
func (c *CLI) autosavePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the autosave project path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), project.AutoSavePath(cfg.DataDir))
			return nil
		},
	}
}

// autosaveClearCommand removes the autosave project with its assets.
func (c *CLI) autosaveClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the autosave project and its assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			dir := filepath.Dir(project.AutoSavePath(cfg.DataDir))
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo(w, "No autosave")
				return nil
			}
			if err := os.RemoveAll(dir); err != nil {
				return err
			}
			printSuccess(w, "Cleared autosave")
			printDetail(w, "Directory: %s", dir)
			return nil
		},
	}
}
