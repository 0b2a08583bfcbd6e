package patch

import (
	"errors"
	"testing"
)

func TestTriggerShortCircuitsOnZeroValue(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := mustSpawn(t, r, Control, "Source")
	b := mustSpawn(t, r, Control, "Pass")
	mustConnect(t, r, a, b, 0)

	ua, _ := r.Resolve(a)
	src := ua.Behavior().(*countingSource)
	src.trigger = 1

	ub, _ := r.Resolve(b)
	if got := ub.UpdateTrigger(); got != 0 {
		t.Errorf("UpdateTrigger() = %d, want 0", got)
	}
	if src.triggers != 0 {
		t.Errorf("upstream trigger evaluated %d times, want 0", src.triggers)
	}
}

func TestDefaultTriggerPropagates(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		trigger int
		want    int
	}{
		{"value and edge", 2, 1, 1},
		{"value without edge", 2, 0, 0},
		{"edge with zero value", 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRegistry(t)
			a := mustSpawn(t, r, Control, "Source")
			b := mustSpawn(t, r, Control, "Pass")
			mustConnect(t, r, a, b, 0)
			ua, _ := r.Resolve(a)
			src := ua.Behavior().(*countingSource)
			src.value, src.trigger = tt.value, tt.trigger

			v, trig, err := r.Evaluate(b)
			if err != nil {
				t.Fatal(err)
			}
			if v != tt.value || trig != tt.want {
				t.Errorf("Evaluate() = %v, %d; want %v, %d", v, trig, tt.value, tt.want)
			}
			ub, _ := r.Resolve(b)
			if ub.StoredValue() != tt.value {
				t.Errorf("StoredValue() = %v, want %v", ub.StoredValue(), tt.value)
			}
		})
	}
}

func TestEvaluateDetectsCycle(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := mustSpawn(t, r, Control, "Pass")
	b := mustSpawn(t, r, Control, "Pass")
	mustConnect(t, r, a, b, 0)
	mustConnect(t, r, b, a, 0)

	_, _, err := r.Evaluate(a)
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("Evaluate() error = %v, want %v", err, ErrCycleDetected)
	}
	if err := r.Validate(); !errors.Is(err, ErrCycleDetected) {
		t.Errorf("Validate() error = %v, want %v", err, ErrCycleDetected)
	}

	// Breaking the loop clears the diagnosis.
	r.Disconnect(a, 0)
	if _, _, err := r.Evaluate(a); err != nil {
		t.Errorf("Evaluate() after break error = %v", err)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate() after break error = %v", err)
	}
}

func TestSelfFeedingInletIsGuarded(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := mustSpawn(t, r, Control, "Pass")
	mustConnect(t, r, a, a, 0)

	if _, _, err := r.Evaluate(a); !errors.Is(err, ErrCycleDetected) {
		t.Errorf("Evaluate() error = %v, want %v", err, ErrCycleDetected)
	}
}

func TestEvaluateStaleHandle(t *testing.T) {
	r, _ := newTestRegistry(t)
	if _, _, err := r.Evaluate(Handle{Kind: Control, ID: 3}); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Evaluate() error = %v, want %v", err, ErrStaleHandle)
	}
}

func TestStepVisitsEveryUnitInRegistryOrder(t *testing.T) {
	var visited []Handle
	f := NewFactory()
	f.MustRegister(Spec{Key: "Rec", Kind: Control, New: func() Behavior { return &stepRecorder{log: &visited} }})
	f.MustRegister(Spec{Key: "Rec", Kind: Graphics, New: func() Behavior { return &stepRecorder{log: &visited} }})
	r := NewRegistry(&Runtime{Factory: f})

	g := mustSpawn(t, r, Graphics, "Rec")
	c1 := mustSpawn(t, r, Control, "Rec", WithID(5))
	c0 := mustSpawn(t, r, Control, "Rec")

	r.Step()

	want := []Handle{c0, c1, g}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %s, want %s", i, visited[i], want[i])
		}
	}
}

func TestPublishWritesConnectedInlets(t *testing.T) {
	r, _ := newTestRegistry(t)
	s := mustSpawn(t, r, Control, "Source")
	v := mustSpawn(t, r, Voice, "osc/sine")
	mustConnect(t, r, s, v, 0)
	us, _ := r.Resolve(s)
	src := us.Behavior().(*countingSource)
	src.value, src.trigger = 440, 1

	if err := r.Publish(); err != nil {
		t.Fatal(err)
	}
	reader := r.Runtime().Shared.Reader()
	idx := SharedIndex(v.ID, 0)
	if reader.Value(idx) != 440 || reader.Trigger(idx) != 1 || !reader.Connected(idx) {
		t.Errorf("slot %d = %v/%d/%v", idx, reader.Value(idx), reader.Trigger(idx), reader.Connected(idx))
	}
	if reader.Connected(SharedIndex(v.ID, 1)) {
		t.Error("unconnected inlet published as connected")
	}
}

func TestVoiceOutputReadsBackend(t *testing.T) {
	r, _ := newTestRegistry(t)
	v := mustSpawn(t, r, Voice, "osc/sine")
	r.Runtime().Shared.OutletWriter().SetOutlet(v.ID, 0.25)

	got, _, err := r.Evaluate(v)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.25 {
		t.Errorf("voice output = %v, want 0.25", got)
	}
}

func TestNotifyQueueRenderFrame(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := mustSpawn(t, r, Graphics, "Screen")
	b := mustSpawn(t, r, Graphics, "Screen")
	c := mustSpawn(t, r, Graphics, "Screen")
	mustConnect(t, r, a, b, 0)
	mustConnect(t, r, a, c, 0)

	ua, _ := r.Resolve(a)
	ua.NotifyQueueRenderFrame()

	for _, h := range []Handle{b, c} {
		u, _ := r.Resolve(h)
		sink := u.Behavior().(*renderSink)
		if sink.queued != 1 || len(sink.inlets) != 1 || sink.inlets[0] != 0 {
			t.Errorf("%s queued = %d on inlets %v, want 1 on inlet 0", h, sink.queued, sink.inlets)
		}
	}
}

func TestResetCallsResetters(t *testing.T) {
	f := NewFactory()
	f.MustRegister(Spec{Key: "Seq", Kind: Control, Outlet: true, New: func() Behavior { return &resettable{} }})
	r := NewRegistry(&Runtime{Factory: f})
	h := mustSpawn(t, r, Control, "Seq")
	u, _ := r.Resolve(h)
	u.Behavior().(*resettable).pos = 3

	r.Reset()

	if got := u.Behavior().(*resettable).pos; got != 0 {
		t.Errorf("pos = %d, want 0", got)
	}
}

type resettable struct{ pos int }

func (s *resettable) Output(*Unit) float64 { return float64(s.pos) }
func (s *resettable) Reset(*Unit)          { s.pos = 0 }
