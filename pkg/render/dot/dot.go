package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the unit's properties, asset and position to its label.
	Detailed bool
}

var kindColors = map[patch.Kind]string{
	patch.Control:  "#e8f0fe",
	patch.Voice:    "#fde8e8",
	patch.Graphics: "#e8fde9",
}

// ToDOT converts the patch held by reg to Graphviz DOT source.
func ToDOT(reg *patch.Registry, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph patch {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")

	for _, k := range patch.Kinds() {
		us := reg.Units(k)
		if len(us) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n  subgraph cluster_%s {\n", k)
		fmt.Fprintf(&buf, "    label=%q;\n", k.String())
		buf.WriteString("    style=dashed;\n")
		for _, u := range us {
			fmt.Fprintf(&buf, "    %q [label=%q, fillcolor=%q];\n", nodeID(u.Handle()), fmtLabel(u, opts.Detailed), kindColors[k])
		}
		buf.WriteString("  }\n")
	}

	cables := reg.Cables()
	if len(cables) > 0 {
		buf.WriteString("\n")
	}
	for _, c := range cables {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(c.From), nodeID(c.To), strings.Join(fmtEdge(reg, c), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(h patch.Handle) string { return h.String() }

func fmtLabel(u *patch.Unit, detailed bool) string {
	label := fmt.Sprintf("%s #%d", u.Key(), u.ID())
	if !detailed {
		return label
	}

	var parts []string
	if u.Asset() != "" {
		parts = append(parts, "file: "+u.Asset())
	}
	meta := u.Meta()
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, meta[k]))
	}
	p := u.Position()
	parts = append(parts, fmt.Sprintf("at: %g, %g, %g", p.X, p.Y, p.Z))
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtEdge(reg *patch.Registry, c patch.Cable) []string {
	name := strconv.Itoa(c.Socket)
	if u, ok := reg.Resolve(c.To); ok {
		if c.Signal {
			if in := u.Input(c.Socket); in != nil && in.Name != "" {
				name = in.Name
			}
		} else if in := u.Inlet(c.Socket); in != nil && in.Name != "" {
			name = in.Name
		}
	}
	attrs := []string{fmt.Sprintf("label=%q", name)}
	if c.Signal {
		attrs = append(attrs, "style=\"bold,dashed\"", "color=firebrick")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from the
// origin, dropping the pt units Graphviz writes.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source to PDF via SVG.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders DOT source to PNG via SVG at the given scale.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
