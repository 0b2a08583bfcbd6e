// Package pkg provides the core libraries of the RayTone unit graph runtime.
//
// # Overview
//
// A RayTone patch is a graph of units. Control units compute numbers and
// triggers once per clock step, voice units run audio programs in an
// external engine, and graphics units drive shaders. Cables carry control
// values into inlets; signal cables carry audio between voices. The pkg
// directory is organized into four main areas:
//
//  1. [patch] - The unit registry, sockets, cables and evaluation
//  2. [engine] - The controller: edits, history, clipboard and projects
//  3. [program], [project], [store] - Programs, files and shared snapshots
//  4. [render] - Graph export
//
// # Architecture
//
// The typical data flow through RayTone:
//
//	.rt project / snapshot store
//	         ↓
//	    [snapshot] package (records → live units)
//	         ↓
//	    [patch] package (registry + connections)
//	         ↓
//	    [engine] Tick (step, then publish to the shared arrays)
//	         ↓
//	    voice programs read inlets from the shared arrays
//
// # Quick Start
//
// Load a project and run a few steps:
//
//	lib, _ := program.OpenLibrary(programDir, logger)
//	eng := engine.New(engine.Options{Logger: logger, Programs: lib})
//	if _, err := eng.Load("song.rt"); err != nil {
//	    log.Warn("partial load", "err", err)
//	}
//	for range 16 {
//	    eng.Tick()
//	}
//
// # Main Packages
//
// [patch] - Units, handles, inlets, inputs and the registry that owns them.
// Evaluation is pull-based and memoized per step; cycles are cut and
// reported.
//
// [patch/units] - The built-in control and graphics units (Number, Counter,
// Sequencer, Trigger, Toggle, Monitor, Elapsed, KeyInput, Average, Window,
// Image and the texture effects Brightness, Constant, Multiply, Delay, Rect,
// FBM, Pixelate and Transform).
//
// [history] - Undoable commands: spawn, destroy, connect, disconnect and
// move.
//
// [snapshot] - Capture and reconstruct sets of units with their cables.
//
// [project] - The .rt JSON format, project directories and autosave.
//
// [program] - Voice program headers, source expansion and the hot-reloaded
// program library.
//
// [store] - Snapshot stores on disk, Redis or MongoDB.
//
// [clock] - The control-rate clock.
//
// [config] - The user configuration (TOML plus RAYTONE_* variables).
//
// [render/dot] - DOT export of the unit graph with Graphviz rendering.
//
// [patch]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/patch
// [patch/units]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/patch/units
// [engine]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/engine
// [history]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/history
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/snapshot
// [project]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/project
// [program]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/program
// [store]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/store
// [clock]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/clock
// [config]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/config
// [render]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/raytone/pkg/render/dot
package pkg
