package patch

import (
	"fmt"
	"time"

	"github.com/matzehuels/raytone/pkg/errors"
)

// UpdateOutput pulls the unit's current value from its behaviour and
// caches it. A re-entrant pull, which only happens when the unit sits on a
// cycle, returns the cached value and flags the cycle on the registry.
func (u *Unit) UpdateOutput() float64 {
	if u.evaluating {
		u.reg.noteCycle(u.handle)
		return u.stored
	}
	u.evaluating = true
	defer func() { u.evaluating = false }()

	u.stored = u.behavior.Output(u)
	return u.stored
}

// UpdateTrigger reports whether an edge occurred this tick. Behaviours
// implementing [Triggerer] decide for themselves; the default is 0 when
// the cached value is exactly zero, else the OR of every connected
// inlet's trigger.
func (u *Unit) UpdateTrigger() int {
	if u.triggering {
		u.reg.noteCycle(u.handle)
		return 0
	}
	u.triggering = true
	defer func() { u.triggering = false }()

	if t, ok := u.behavior.(Triggerer); ok {
		return t.Trigger(u)
	}
	return u.DefaultTrigger()
}

// DefaultTrigger is the trigger rule used when a behaviour does not
// override it. Behaviours that wrap the default can call it directly.
func (u *Unit) DefaultTrigger() int {
	if u.stored == 0 {
		return 0
	}
	trigger := 0
	for i := range u.inlets {
		if src := u.InletUnit(i); src != nil {
			trigger |= src.UpdateTrigger()
		}
	}
	return trigger
}

// NotifyQueueRenderFrame forwards a render request to every unit fed by
// u's outlet that accepts one.
func (u *Unit) NotifyQueueRenderFrame() {
	if u.outlet == nil || u.rendering {
		return
	}
	u.rendering = true
	defer func() { u.rendering = false }()

	for _, e := range u.outlet.targets {
		dst, ok := u.reg.Resolve(e.Unit)
		if !ok {
			continue
		}
		if q, ok := dst.behavior.(RenderQueuer); ok {
			q.QueueRender(dst, e.Index)
		}
	}
}

func (r *Registry) noteCycle(h Handle) {
	if !r.cycled {
		r.cycled, r.cycleAt = true, h
	}
	r.rt.Hooks.Engine.OnCycle(h.Kind.String())
}

func (r *Registry) takeCycle() error {
	if !r.cycled {
		return nil
	}
	h := r.cycleAt
	r.cycled = false
	return errors.New(errors.ErrCodeCycleDetected, "evaluation re-entered %s", h)
}

// Evaluate pulls the value and trigger of h as a downstream reader would.
// It reports [ErrCycleDetected] when the pull re-entered a unit.
func (r *Registry) Evaluate(h Handle) (float64, int, error) {
	u, ok := r.Resolve(h)
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeStaleHandle, "%s no longer exists", h)
	}
	r.cycled = false
	v := u.UpdateOutput()
	t := u.UpdateTrigger()
	return v, t, r.takeCycle()
}

// Step advances every unit by one control tick, in registry order.
func (r *Registry) Step() {
	start := time.Now()
	n := 0
	for _, k := range kinds {
		for _, u := range r.units[k] {
			if u == nil {
				continue
			}
			n++
			if s, ok := u.behavior.(Stepper); ok {
				s.Step(u)
			}
		}
	}
	r.rt.Hooks.Engine.OnTick(n, time.Since(start))
}

// Reset rewinds every unit that keeps sequencing state.
func (r *Registry) Reset() {
	for _, k := range kinds {
		for _, u := range r.units[k] {
			if u == nil {
				continue
			}
			if s, ok := u.behavior.(Resetter); ok {
				s.Reset(u)
			}
		}
	}
}

// Publish pulls every connected voice inlet and writes its value, trigger
// and status to the shared arrays. It is the only writer of those arrays
// apart from the zeroing done on disconnect.
func (r *Registry) Publish() error {
	r.cycled = false
	for _, u := range r.units[Voice] {
		if u == nil {
			continue
		}
		for _, in := range u.inlets {
			if !in.connected {
				continue
			}
			src, ok := r.Resolve(in.source)
			if !ok {
				continue
			}
			v := src.UpdateOutput()
			t := src.UpdateTrigger()
			r.writer.Set(in.shared, v, t, true)
		}
	}
	return r.takeCycle()
}

// Validate walks the graph and reports [ErrCycleDetected] if any directed
// cycle exists, over both scalar and signal connections. Cycles are legal
// to build; Validate lets callers warn about them before evaluation does.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (r *Registry) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[Handle]int, r.Len())
	var back *Cable

	var dfs func(u *Unit)
	dfs = func(u *Unit) {
		color[u.handle] = gray
		visit := func(e Endpoint, signal bool) {
			if back != nil {
				return
			}
			switch color[e.Unit] {
			case white:
				if next, ok := r.Resolve(e.Unit); ok {
					dfs(next)
				}
			case gray:
				back = &Cable{From: u.handle, To: e.Unit, Socket: e.Index, Signal: signal}
			}
		}
		if u.outlet != nil {
			for _, e := range u.outlet.targets {
				visit(e, false)
			}
		}
		if u.output != nil {
			for _, e := range u.output.targets {
				visit(e, true)
			}
		}
		color[u.handle] = black
	}

	for _, h := range r.All() {
		if color[h] == white {
			dfs(r.units[h.Kind][h.ID])
			if back != nil {
				return errors.New(errors.ErrCodeCycleDetected, "connection %s", back)
			}
		}
	}
	return nil
}

// String renders a cable as "from -> to[socket]".
func (c Cable) String() string {
	arrow := "->"
	if c.Signal {
		arrow = "~>"
	}
	return fmt.Sprintf("%s %s %s[%d]", c.From, arrow, c.To, c.Socket)
}
