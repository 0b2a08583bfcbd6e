package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/raytone/pkg/observability"
	"github.com/matzehuels/raytone/pkg/patch"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.rt>",
		Short: "List the units and cables of a project",
		Args:  cobra.ExactArgs(1),

		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			eng, _, err := c.newEngine(cfg, args[0], observability.Hooks{})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			reg := eng.Registry()
			fmt.Fprintln(w, StyleTitle.Render(args[0]))
			printStats(w, reg.Len(), len(reg.Cables()), eng.BPM())
			fmt.Fprintln(w)
			if reg.Len() > 0 {
				fmt.Fprintln(w, unitTable(reg))
			}
			if len(reg.Cables()) > 0 {
				fmt.Fprintln(w, StyleTitle.Render("Cables"))
				printCables(w, reg)
			}
			return nil
		},
	}
}

// unitTable renders one row per live unit with its inlet sources.
func unitTable(reg *patch.Registry) string {
	var rows [][]string
	var kinds []patch.Kind
	for _, h := range reg.All() {
		u, _ := reg.Resolve(h)
		rows = append(rows, []string{
			h.String(),
			u.Key(),
			fmtPosition(u.Position()),
			fmt.Sprintf("%g", u.StoredValue()),
			fmtSources(u),
			u.Asset(),
		})
		kinds = append(kinds, h.Kind)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Unit", "Key", "Location", "Value", "Inputs", "File").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 && row >= 0 && row < len(kinds) {
				return kindStyles[kinds[row]]
			}
			if col == 5 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func fmtPosition(p patch.Vec3) string {
	return fmt.Sprintf("%g, %g, %g", p.X, p.Y, p.Z)
}

// fmtSources lists "name<-source" for each connected inlet and input.
func fmtSources(u *patch.Unit) string {
	var parts []string
	for i := range u.NumInlets() {
		in := u.Inlet(i)
		if src, ok := in.Source(); ok {
			parts = append(parts, in.Name+"<-"+src.String())
		}
	}
	for i := range u.NumInputs() {
		in := u.Input(i)
		if src, ok := in.Source(); ok {
			parts = append(parts, in.Name+"<~"+src.String())
		}
	}
	return strings.Join(parts, " ")
}

// printCables lists every connection, signal cables marked with "~>".
func printCables(w io.Writer, reg *patch.Registry) {
	for _, c := range reg.Cables() {
		arrow := "->"
		if c.Signal {
			arrow = "~>"
		}
		printDetail(w, "%s %s %s[%d]", c.From, arrow, c.To, c.Socket)
	}
}
