// Package patch implements the unit graph at the heart of RayTone.
//
// A patch is a set of Units wired together by connections. Every unit
// belongs to one of three kinds ([Control], [Voice], [Graphics]) and lives
// in a fixed-capacity slot pool owned by a [Registry]. Everything outside
// the registry refers to a unit through a [Handle], a (kind, slot id) pair
// that may go stale once the unit is destroyed; [Registry.Resolve] reports
// staleness instead of failing.
//
// # Sockets
//
// Units expose up to four socket roles:
//
//   - Inlet: scalar sink, at most one connection
//   - Outlet: scalar source, fans out to many inlets
//   - Input: audio-signal sink on voices, at most one connection
//   - Output: audio-signal source on voices, fans out to many inputs
//
// Connecting a second source to an occupied inlet or input replaces the
// first connection. The visual cable for each connection is created and
// destroyed through the [Presenter] supplied in the [Runtime].
//
// # Evaluation
//
// Evaluation has two clocks. [Registry.Step] advances every unit's
// sequencing state once per control tick. Values are pulled on demand:
// [Unit.UpdateOutput] asks a unit's [Behavior] for its current output and
// caches it, and [Unit.UpdateTrigger] reports whether an edge occurred.
// A unit that is pulled while it is already being evaluated does not
// recurse; the registry records a cycle and [Registry.Evaluate] reports
// [ErrCycleDetected].
//
// # Shared arrays
//
// Voice inlets are mirrored into fixed-size [SharedArrays] that an audio
// backend reads from its own thread. The engine holds the [SharedWriter]
// view and the backend the [SharedReader] view.
//
// # Behaviours
//
// Unit kinds are registered in a [Factory] under a string key together with
// their socket layout and a constructor. Optional interfaces ([Stepper],
// [Triggerer], [Resetter], [Persister], [Attacher], [Detacher],
// [RenderQueuer]) let a behaviour take part in the tick, trigger override,
// reset, persistence, lifecycle and render-request protocols.
package patch
