package patch

import "github.com/charmbracelet/log"

// Unit is one node of the patch. Units are owned by their [Registry];
// other components keep a [Handle] and resolve it when needed.
type Unit struct {
	reg      *Registry
	handle   Handle
	key      string
	asset    string
	pos      Vec3
	selected bool
	stored   float64
	behavior Behavior

	inlets []*Inlet
	outlet *Outlet
	inputs []*Input
	output *Output

	// Re-entrancy flags for the cycle guard.
	evaluating bool
	triggering bool
	rendering  bool
}

// Handle returns the unit's handle.
func (u *Unit) Handle() Handle { return u.handle }

// Kind returns the unit's kind.
func (u *Unit) Kind() Kind { return u.handle.Kind }

// ID returns the unit's slot id.
func (u *Unit) ID() int { return u.handle.ID }

// Key returns the factory key, or the program name for voices.
func (u *Unit) Key() string { return u.key }

// Asset returns the path of the file the unit plays or displays, if any.
func (u *Unit) Asset() string { return u.asset }

// Position returns the canvas position.
func (u *Unit) Position() Vec3 { return u.pos }

// Selected reports whether the unit is part of the selection.
func (u *Unit) Selected() bool { return u.selected }

// Behavior returns the unit's behaviour.
func (u *Unit) Behavior() Behavior { return u.behavior }

// Runtime returns the runtime the unit was spawned in.
func (u *Unit) Runtime() *Runtime { return u.reg.rt }

// Logger returns a logger tagged with the unit's handle.
func (u *Unit) Logger() *log.Logger { return u.reg.rt.Logger.With("unit", u.handle) }

// StoredValue returns the last value cached by [Unit.UpdateOutput].
func (u *Unit) StoredValue() float64 { return u.stored }

// StoreValue overwrites the cached output.
func (u *Unit) StoreValue(v float64) { u.stored = v }

// Meta returns the behaviour's properties, or nil when it has none.
func (u *Unit) Meta() Meta {
	if p, ok := u.behavior.(Persister); ok {
		return p.Properties()
	}
	return nil
}

// NumInlets returns the number of scalar inlets.
func (u *Unit) NumInlets() int { return len(u.inlets) }

// Inlet returns inlet i, or nil when out of range.
func (u *Unit) Inlet(i int) *Inlet {
	if i < 0 || i >= len(u.inlets) {
		return nil
	}
	return u.inlets[i]
}

// Outlet returns the scalar outlet, or nil.
func (u *Unit) Outlet() *Outlet { return u.outlet }

// NumInputs returns the number of signal inputs.
func (u *Unit) NumInputs() int { return len(u.inputs) }

// Input returns input i, or nil when out of range.
func (u *Unit) Input(i int) *Input {
	if i < 0 || i >= len(u.inputs) {
		return nil
	}
	return u.inputs[i]
}

// Output returns the signal output, or nil for non-voice units.
func (u *Unit) Output() *Output { return u.output }

// InletUnit returns the unit feeding inlet i, or nil.
func (u *Unit) InletUnit(i int) *Unit {
	in := u.Inlet(i)
	if in == nil || !in.connected {
		return nil
	}
	src, _ := u.reg.Resolve(in.source)
	return src
}

// InletConnected reports whether inlet i has a source.
func (u *Unit) InletConnected(i int) bool { return u.InletUnit(i) != nil }

// InletValue pulls the output of the unit feeding inlet i. It returns def
// when the inlet is unconnected.
func (u *Unit) InletValue(i int, def float64) float64 {
	src := u.InletUnit(i)
	if src == nil {
		return def
	}
	return src.UpdateOutput()
}

// InletTrigger pulls the trigger of the unit feeding inlet i. It returns 0
// when the inlet is unconnected.
func (u *Unit) InletTrigger(i int) int {
	src := u.InletUnit(i)
	if src == nil {
		return 0
	}
	return src.UpdateTrigger()
}
