// Package render converts rendered patch diagrams between output formats.
//
// The [dot] subpackage draws a patch as a Graphviz diagram and renders it
// to SVG in-process. [ToPDF] and [ToPNG] convert that SVG further using the
// external rsvg-convert tool (from librsvg):
//
//	svg, err := dot.RenderSVG(dot.ToDOT(reg, dot.Options{}))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [dot]: github.com/matzehuels/raytone/pkg/render/dot
package render
