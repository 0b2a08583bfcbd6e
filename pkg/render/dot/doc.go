// Package dot draws a patch as a Graphviz diagram.
//
// Units become boxes grouped by kind; control cables are solid arrows
// labelled with the destination inlet, and audio cables between voices are
// bold dashed arrows labelled with the destination input.
//
//	src := dot.ToDOT(reg, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(src)
//
// The DOT text can also be saved and processed with external Graphviz
// tools. Rendering uses [github.com/goccy/go-graphviz] in-process, so no
// Graphviz installation is needed.
package dot
