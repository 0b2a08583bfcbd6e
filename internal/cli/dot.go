package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/raytone/pkg/observability"
	"github.com/matzehuels/raytone/pkg/render"
	"github.com/matzehuels/raytone/pkg/render/dot"
)

// dotOpts holds the command-line flags for the dot command.
type dotOpts struct {
	output   string  // output file; the extension picks the format
	detailed bool    // add file, meta and location to node labels
	scale    float64 // PNG scale factor
}

// validFormats maps output extensions to whether they need rsvg-convert.
var validFormats = map[string]bool{".dot": false, ".gv": false, ".svg": false, ".pdf": true, ".png": true}

// dotCommand creates the dot command for exporting the unit graph.
func (c *CLI) dotCommand() *cobra.Command {
	opts := dotOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "dot <file.rt>",
		Short: "Export the unit graph as DOT, SVG, PDF or PNG",
		Long: `Export the unit graph of a project. Without --output the DOT source is
written to stdout; otherwise the extension of the output file selects the
format (.dot, .svg, .pdf, .png). PDF and PNG need rsvg-convert.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := strings.ToLower(filepath.Ext(opts.output))
			if opts.output != "" {
				needsConvert, ok := validFormats[ext]
				if !ok {
					return fmt.Errorf("invalid output format: %q (must be .dot, .svg, .pdf or .png)", ext)
				}
				if needsConvert && !render.Available() {
					return fmt.Errorf("%s output needs rsvg-convert on PATH", ext)
				}
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			eng, _, err := c.newEngine(cfg, args[0], observability.Hooks{})
			if err != nil {
				return err
			}
			src := dot.ToDOT(eng.Registry(), dot.Options{Detailed: opts.detailed})
			if opts.output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), src)
				return err
			}

			prog := newProgress(c.Logger)
			data, err := renderDOT(src, ext, opts.scale)
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.output, data, 0644); err != nil {
				return err
			}
			prog.done("rendered", "format", ext[1:], "file", opts.output)
			printSuccess(cmd.OutOrStdout(), "Exported %d units", eng.Registry().Len())
			printFile(cmd.OutOrStdout(), opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.dot, .svg, .pdf, .png)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show file, meta and location in node labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func renderDOT(src, ext string, scale float64) ([]byte, error) {
	switch ext {
	case ".svg":
		return dot.RenderSVG(src)
	case ".pdf":
		return dot.RenderPDF(src)
	case ".png":
		return dot.RenderPNG(src, scale)
	default:
		return []byte(src), nil
	}
}
