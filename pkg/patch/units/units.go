// Package units provides the built-in control and graphics units.
//
// Call [Register] once at startup to add them to a [patch.Factory]:
//
//	f := patch.NewFactory()
//	units.Register(f)
//	reg := patch.NewRegistry(patch.NewRuntime(f))
//	seq, _ := reg.Spawn(patch.Control, units.KeySequencer, patch.Vec3{})
//
// Control units compute scalar values and triggers. Graphics units pass
// opaque texture ids allocated from the runtime's [patch.TextureTable];
// the actual pixels belong to the renderer.
package units

import "github.com/matzehuels/raytone/pkg/patch"

// Factory keys of the built-in units.
const (
	KeyNumber    = "Number"
	KeyCounter   = "Counter"
	KeySequencer = "Sequencer"
	KeyTrigger   = "Trigger"
	KeyToggle    = "Toggle"
	KeyMonitor   = "Monitor"
	KeyElapsed   = "Elapsed"
	KeyKeyInput  = "KeyInput"
	KeyAverage   = "Average"

	KeyWindow = "Window"
	KeyImage  = "Image"

	KeyBrightness = "Brightness"
	KeyConstant   = "Constant"
	KeyMultiply   = "Multiply"
	KeyDelay      = "Delay"
	KeyRect       = "Rect"
	KeyFBM        = "FBM"
	KeyPixelate   = "Pixelate"
	KeyTransform  = "Transform"
)

// Specs returns the specs of every built-in unit.
func Specs() []patch.Spec {
	specs := []patch.Spec{
		{Key: KeyNumber, Kind: patch.Control, Category: "Value", Outlet: true, New: func() patch.Behavior { return &Number{} }},
		{Key: KeyCounter, Kind: patch.Control, Category: "Value", Inlets: []string{"increment", "reset"}, Outlet: true, New: func() patch.Behavior { return &Counter{} }},
		{Key: KeySequencer, Kind: patch.Control, Category: "Sequence", Outlet: true, New: func() patch.Behavior { return NewSequencer() }},
		{Key: KeyTrigger, Kind: patch.Control, Category: "Interface", Outlet: true, New: func() patch.Behavior { return &Trigger{} }},
		{Key: KeyToggle, Kind: patch.Control, Category: "Interface", Outlet: true, New: func() patch.Behavior { return &Toggle{} }},
		{Key: KeyMonitor, Kind: patch.Control, Category: "Utility", Inlets: []string{"in"}, Outlet: true, New: func() patch.Behavior { return &Monitor{} }},
		{Key: KeyElapsed, Kind: patch.Control, Category: "Time", Inlets: []string{"reset"}, Outlet: true, New: func() patch.Behavior { return &Elapsed{} }},
		{Key: KeyKeyInput, Kind: patch.Control, Category: "Interface", Outlet: true, New: func() patch.Behavior { return NewKeyInput() }},
		{Key: KeyAverage, Kind: patch.Control, Category: "Utility", Inlets: []string{"in", "time"}, Outlet: true, New: func() patch.Behavior { return &Average{} }},

		{Key: KeyWindow, Kind: patch.Graphics, Category: "Output", Inlets: []string{"texture"}, Single: true, New: func() patch.Behavior { return &Window{} }},
		{Key: KeyImage, Kind: patch.Graphics, Category: "Source", Inlets: []string{"width", "height", "opacity"}, Outlet: true, New: func() patch.Behavior { return &Image{} }},
	}
	return append(specs, effectSpecs()...)
}

// Register adds every built-in unit to f.
func Register(f *patch.Factory) error {
	for _, s := range Specs() {
		if err := f.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// NewFactory returns a factory holding the built-in units.
func NewFactory() *patch.Factory {
	f := patch.NewFactory()
	for _, s := range Specs() {
		f.MustRegister(s)
	}
	return f
}

// pulledTrigger forces the unit on inlet i to update, then reads its
// trigger. ok is false when the inlet is unconnected.
func pulledTrigger(u *patch.Unit, i int) (trigger int, ok bool) {
	if !u.InletConnected(i) {
		return 0, false
	}
	u.InletValue(i, 0)
	return u.InletTrigger(i), true
}
