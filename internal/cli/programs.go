package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/raytone/pkg/program"
)

// programsCommand creates the programs command.
func (c *CLI) programsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "List the voice programs in the program directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			lib, err := program.OpenLibrary(cfg.ProgramDir, c.Logger)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if lib.Len() == 0 {
				printInfo(w, "No programs in %s", lib.Dir())
				return nil
			}

			fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%d programs", lib.Len())))
			for _, name := range lib.Names() {
				p, _ := lib.Program(name)
				var flags []string
				if len(p.Inputs) > 0 {
					flags = append(flags, "in: "+strings.Join(p.Inputs, ", "))
				}
				if len(p.Inlets) > 0 {
					flags = append(flags, "inlets: "+strings.Join(p.Inlets, ", "))
				}
				if p.Outlet {
					flags = append(flags, "outlet")
				}
				if p.LoadFile {
					flags = append(flags, "file")
				}
				fmt.Fprintf(w, "  %s  %s\n", StyleValue.Render(name), StyleDim.Render(strings.Join(flags, " · ")))
			}
			return nil
		},
	}
}
