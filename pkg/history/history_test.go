package history

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/patch/units"
	"github.com/matzehuels/raytone/pkg/snapshot"
)

var programs = patch.ProgramMap{
	"osc/sine": {Name: "osc/sine", Inlets: []string{"freq"}, Outlet: true},
	"fx/gain":  {Name: "fx/gain", Inputs: []string{"in"}, Inlets: []string{"gain"}},
}

type fakeCommand struct {
	name string
	log  *[]string
}

func (c fakeCommand) Undo(*patch.Registry) { *c.log = append(*c.log, "undo "+c.name) }
func (c fakeCommand) Redo(*patch.Registry) { *c.log = append(*c.log, "redo "+c.name) }
func (c fakeCommand) String() string       { return c.name }

type recordingHooks struct{ ops []string }

func (h *recordingHooks) OnCommand(command, op string) { h.ops = append(h.ops, op+":"+command) }

func newRegistry() *patch.Registry {
	rt := patch.NewRuntime(units.NewFactory())
	rt.Programs = programs
	return patch.NewRegistry(rt)
}

// state renders everything undo must restore: units, positions, cables.
func state(reg *patch.Registry) string {
	var s string
	for _, h := range reg.All() {
		u, _ := reg.Resolve(h)
		s += fmt.Sprintf("%s %s %v %v;", h, u.Key(), u.Position(), u.Meta())
	}
	for _, c := range reg.Cables() {
		s += c.String() + ";"
	}
	return s
}

func TestHistoryCursor(t *testing.T) {
	var log []string
	hooks := &recordingHooks{}
	rt := patch.NewRuntime(nil)
	rt.Hooks.History = hooks
	h := New(patch.NewRegistry(rt))

	if h.Undo() || h.Redo() {
		t.Fatal("empty history did something")
	}
	if h.Cursor() != -1 {
		t.Fatalf("Cursor() = %d, want -1", h.Cursor())
	}

	h.Execute(fakeCommand{"a", &log})
	h.Record(fakeCommand{"b", &log})
	h.Record(fakeCommand{"c", &log})
	if h.Len() != 3 || h.Cursor() != 2 || h.CanRedo() {
		t.Fatalf("len = %d cursor = %d", h.Len(), h.Cursor())
	}

	h.Undo()
	h.Undo()
	if !h.CanRedo() || h.Cursor() != 0 {
		t.Fatalf("after two undos cursor = %d", h.Cursor())
	}

	// Recording drops the redo branch.
	h.Record(fakeCommand{"d", &log})
	if h.Len() != 2 || h.CanRedo() {
		t.Fatalf("after record len = %d canRedo = %v", h.Len(), h.CanRedo())
	}

	h.Undo()
	h.Undo()
	if h.Undo() {
		t.Error("Undo() past the start reported true")
	}
	h.Redo()

	want := []string{"redo a", "undo c", "undo b", "undo d", "undo a", "redo a"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if len(hooks.ops) != 9 || hooks.ops[0] != "record:a" {
		t.Errorf("hook ops = %v", hooks.ops)
	}

	h.Clear()
	if h.Len() != 0 || h.CanUndo() {
		t.Error("Clear() left commands")
	}
}

// TestUndoRedoRoundTrip applies a mixed sequence of edits, recording each,
// then checks that undoing everything restores every intermediate state
// and redoing everything returns to the final one.
func TestUndoRedoRoundTrip(t *testing.T) {
	reg := newRegistry()
	h := New(reg)
	states := []string{state(reg)}
	record := func(cmd Command) {
		t.Helper()
		h.Record(cmd)
		states = append(states, state(reg))
	}
	spawn := func(kind patch.Kind, key string, pos patch.Vec3) patch.Handle {
		t.Helper()
		hd, err := reg.Spawn(kind, key, pos)
		if err != nil {
			t.Fatalf("Spawn(%q) error = %v", key, err)
		}
		record(NewSpawn(snapshot.Capture(reg, []patch.Handle{hd}, false)))
		return hd
	}

	num := spawn(patch.Control, units.KeyNumber, patch.Vec3{X: 1})
	mon := spawn(patch.Control, units.KeyMonitor, patch.Vec3{X: 2})
	sine := spawn(patch.Voice, "osc/sine", patch.Vec3{Z: 1})
	gain := spawn(patch.Voice, "fx/gain", patch.Vec3{Z: 2})

	if err := reg.Connect(num, mon, 0); err != nil {
		t.Fatal(err)
	}
	record(NewConnect(num, mon, 0))
	if err := reg.Connect(num, sine, 0); err != nil {
		t.Fatal(err)
	}
	record(NewConnect(num, sine, 0))
	if err := reg.ConnectSignal(sine, gain, 0); err != nil {
		t.Fatal(err)
	}
	record(NewConnectSignal(sine, gain, 0))

	reg.Move(num, patch.Vec3{X: 4, Y: 1})
	reg.Move(mon, patch.Vec3{X: 5, Y: 1})
	mv, ok := NewMove([]patch.Handle{num, mon}, patch.Vec3{X: 1}, patch.Vec3{X: 4, Y: 1})
	if !ok {
		t.Fatal("NewMove() not ok")
	}
	record(mv)

	from, _ := reg.Disconnect(mon, 0)
	record(NewDisconnect(from, mon, 0))

	snap := snapshot.Capture(reg, []patch.Handle{sine}, true)
	reg.Destroy(sine)
	record(NewDestroy(snap))

	final := states[len(states)-1]
	for i := len(states) - 2; i >= 0; i-- {
		if !h.Undo() {
			t.Fatalf("Undo() to state %d reported false", i)
		}
		if got := state(reg); got != states[i] {
			t.Fatalf("after undo to %d:\n got %s\nwant %s", i, got, states[i])
		}
	}
	if reg.Len() != 0 {
		t.Fatalf("Len() after undoing everything = %d", reg.Len())
	}

	for i := 1; i < len(states); i++ {
		if !h.Redo() {
			t.Fatalf("Redo() to state %d reported false", i)
		}
		if got := state(reg); got != states[i] {
			t.Fatalf("after redo to %d:\n got %s\nwant %s", i, got, states[i])
		}
	}
	if state(reg) != final {
		t.Error("redo did not reach the final state")
	}
}

func TestDestroyUndoRestoresRelatives(t *testing.T) {
	reg := newRegistry()
	h := New(reg)
	num, _ := reg.Spawn(patch.Control, units.KeyNumber, patch.Vec3{})
	mon, _ := reg.Spawn(patch.Control, units.KeyMonitor, patch.Vec3{})
	tail, _ := reg.Spawn(patch.Control, units.KeyMonitor, patch.Vec3{})
	_ = reg.Connect(num, mon, 0)
	_ = reg.Connect(mon, tail, 0)
	before := state(reg)

	snap := snapshot.Capture(reg, []patch.Handle{mon}, true)
	reg.Destroy(mon)
	h.Record(NewDestroy(snap))

	h.Undo()
	if got := state(reg); got != before {
		t.Errorf("after undo:\n got %s\nwant %s", got, before)
	}
	h.Redo()
	if _, ok := reg.Resolve(mon); ok {
		t.Error("redo left the monitor alive")
	}
	if _, ok := reg.Resolve(num); !ok {
		t.Error("redo destroyed a relative")
	}
}

func TestStaleHandlesAreIgnored(t *testing.T) {
	reg := newRegistry()
	h := New(reg)
	num, _ := reg.Spawn(patch.Control, units.KeyNumber, patch.Vec3{})
	mon, _ := reg.Spawn(patch.Control, units.KeyMonitor, patch.Vec3{})
	_ = reg.Connect(num, mon, 0)
	h.Record(NewConnect(num, mon, 0))
	mv, _ := NewMove([]patch.Handle{num}, patch.Vec3{}, patch.Vec3{X: 1})
	h.Record(mv)

	reg.Destroy(num)
	reg.Destroy(mon)
	h.Undo()
	h.Undo()
	h.Redo()
	h.Redo()
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestUnlinkLeavesReplacedConnection(t *testing.T) {
	reg := newRegistry()
	a, _ := reg.Spawn(patch.Control, units.KeyNumber, patch.Vec3{})
	b, _ := reg.Spawn(patch.Control, units.KeyNumber, patch.Vec3{})
	mon, _ := reg.Spawn(patch.Control, units.KeyMonitor, patch.Vec3{})
	_ = reg.Connect(b, mon, 0)

	// Undoing a connection from a must not cut the cable from b.
	NewConnect(a, mon, 0).Undo(reg)
	u, _ := reg.Resolve(mon)
	if src, ok := u.Inlet(0).Source(); !ok || src != b {
		t.Errorf("source = %v, %v; want %v", src, ok, b)
	}
}

func TestNewMove(t *testing.T) {
	hs := []patch.Handle{{Kind: patch.Control, ID: 0}}
	tests := []struct {
		name     string
		handles  []patch.Handle
		from, to patch.Vec3
		ok       bool
	}{
		{"moved", hs, patch.Vec3{}, patch.Vec3{X: 1}, true},
		{"zero displacement", hs, patch.Vec3{X: 2}, patch.Vec3{X: 2}, false},
		{"no handles", nil, patch.Vec3{}, patch.Vec3{X: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := NewMove(tt.handles, tt.from, tt.to); ok != tt.ok {
				t.Errorf("NewMove() ok = %v, want %v", ok, tt.ok)
			}
		})
	}
}
