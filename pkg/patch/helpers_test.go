package patch

import "testing"

type constBehavior struct{ value float64 }

func (c *constBehavior) Output(*Unit) float64 { return c.value }

func (c *constBehavior) Properties() Meta {
	m := Meta{}
	m.SetFloat("value", c.value)
	return m
}

func (c *constBehavior) Apply(m Meta) { c.value = m.Float("value", c.value) }

type passBehavior struct{}

func (passBehavior) Output(u *Unit) float64 { return u.InletValue(0, 0) }

// countingSource reports a fixed trigger and counts how often it was asked.
type countingSource struct {
	value    float64
	trigger  int
	triggers int
}

func (c *countingSource) Output(*Unit) float64 { return c.value }

func (c *countingSource) Trigger(*Unit) int {
	c.triggers++
	return c.trigger
}

type stepRecorder struct {
	log *[]Handle
}

func (s *stepRecorder) Output(*Unit) float64 { return 0 }
func (s *stepRecorder) Step(u *Unit)         { *s.log = append(*s.log, u.Handle()) }

type renderSink struct {
	queued int
	inlets []int
}

func (r *renderSink) Output(*Unit) float64 { return 0 }
func (r *renderSink) QueueRender(u *Unit, inlet int) {
	r.queued++
	r.inlets = append(r.inlets, inlet)
}

type recordingPresenter struct {
	NopPresenter
	spawned   []Handle
	destroyed []Handle
	cables    []Cable
	cut       []Cable
	selected  map[Handle]bool
}

func (p *recordingPresenter) SpawnUnit(h Handle, _ string, _ Vec3) { p.spawned = append(p.spawned, h) }
func (p *recordingPresenter) DestroyUnit(h Handle)                 { p.destroyed = append(p.destroyed, h) }
func (p *recordingPresenter) SpawnCable(c Cable)                   { p.cables = append(p.cables, c) }
func (p *recordingPresenter) DestroyCable(c Cable)                 { p.cut = append(p.cut, c) }

func (p *recordingPresenter) Selected(h Handle, on bool) {
	if p.selected == nil {
		p.selected = make(map[Handle]bool)
	}
	p.selected[h] = on
}

var testPrograms = ProgramMap{
	"osc/sine": {
		Name:   "osc/sine",
		Inputs: []string{"am"},
		Inlets: []string{"freq", "gain", "pan"},
		Outlet: true,
	},
	"fx/gain": {
		Name:   "fx/gain",
		Inputs: []string{"in"},
		Inlets: []string{"gain"},
	},
}

func newTestFactory() *Factory {
	f := NewFactory()
	f.MustRegister(Spec{Key: "Const", Kind: Control, Outlet: true, New: func() Behavior { return &constBehavior{} }})
	f.MustRegister(Spec{Key: "Pass", Kind: Control, Inlets: []string{"in"}, Outlet: true, New: func() Behavior { return passBehavior{} }})
	f.MustRegister(Spec{Key: "Sink", Kind: Control, Inlets: []string{"a", "b"}, New: func() Behavior { return passBehavior{} }})
	f.MustRegister(Spec{Key: "Widget", Kind: Control, Outlet: true, Single: true, New: func() Behavior { return &constBehavior{} }})
	f.MustRegister(Spec{Key: "Source", Kind: Control, Outlet: true, New: func() Behavior { return &countingSource{} }})
	f.MustRegister(Spec{Key: "Screen", Kind: Graphics, Inlets: []string{"texture"}, Outlet: true, New: func() Behavior { return &renderSink{} }})
	return f
}

func newTestRegistry(t *testing.T) (*Registry, *recordingPresenter) {
	t.Helper()
	p := &recordingPresenter{}
	rt := &Runtime{Factory: newTestFactory(), Programs: testPrograms, Presenter: p}
	return NewRegistry(rt), p
}

func mustSpawn(t *testing.T, r *Registry, kind Kind, key string, opts ...SpawnOption) Handle {
	t.Helper()
	h, err := r.Spawn(kind, key, Vec3{}, opts...)
	if err != nil {
		t.Fatalf("Spawn(%s, %q) error = %v", kind, key, err)
	}
	return h
}

func mustConnect(t *testing.T, r *Registry, from, to Handle, inlet int) {
	t.Helper()
	if err := r.Connect(from, to, inlet); err != nil {
		t.Fatalf("Connect(%s, %s, %d) error = %v", from, to, inlet, err)
	}
}
