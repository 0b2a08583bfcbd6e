package patch

import (
	"slices"

	"github.com/matzehuels/raytone/pkg/errors"
)

// Connect wires the outlet of from to inlet index of to. An existing
// connection on that inlet is removed first, so the destination is never
// half-connected. Connecting the source that is already attached fails
// with [ErrAlreadyConnected] and leaves the graph untouched.
func (r *Registry) Connect(from, to Handle, inlet int) error {
	err := r.connect(from, to, inlet)
	r.rt.Hooks.Engine.OnConnect(false, err)
	return err
}

func (r *Registry) connect(from, to Handle, inlet int) error {
	src, ok := r.Resolve(from)
	if !ok {
		return errors.New(errors.ErrCodeStaleHandle, "source %s no longer exists", from)
	}
	dst, ok := r.Resolve(to)
	if !ok {
		return errors.New(errors.ErrCodeStaleHandle, "destination %s no longer exists", to)
	}
	if src.outlet == nil {
		return errors.New(errors.ErrCodeNoSuchSocket, "%s has no outlet", from)
	}
	in := dst.Inlet(inlet)
	if in == nil {
		return errors.New(errors.ErrCodeNoSuchSocket, "%s has no inlet %d", to, inlet)
	}
	if in.connected && in.source == from {
		return errors.New(errors.ErrCodeAlreadyConnected, "%s already feeds %s inlet %d", from, to, inlet)
	}
	if in.connected {
		r.Disconnect(to, inlet)
	}

	in.source, in.connected = from, true
	src.outlet.targets = append(src.outlet.targets, Endpoint{Unit: to, Index: inlet})
	r.rt.Presenter.SpawnCable(Cable{From: from, To: to, Socket: inlet})
	return nil
}

// Disconnect removes the connection on inlet index of to and returns the
// unit that fed it. A voice inlet's shared slot is zeroed so the backend
// immediately reads it as unconnected.
func (r *Registry) Disconnect(to Handle, inlet int) (Handle, bool) {
	dst, ok := r.Resolve(to)
	if !ok {
		return Handle{}, false
	}
	in := dst.Inlet(inlet)
	if in == nil || !in.connected {
		return Handle{}, false
	}
	from := in.source
	if src, ok := r.Resolve(from); ok && src.outlet != nil {
		src.outlet.targets = removeEndpoint(src.outlet.targets, Endpoint{Unit: to, Index: inlet})
	}
	in.source, in.connected = Handle{}, false
	if in.shared >= 0 {
		r.writer.Clear(in.shared)
	}
	r.rt.Presenter.DestroyCable(Cable{From: from, To: to, Socket: inlet})
	return from, true
}

// ConnectSignal wires the output of voice from to input index of voice to,
// with the same replace semantics as [Registry.Connect]. A voice cannot
// feed its own input.
func (r *Registry) ConnectSignal(from, to Handle, input int) error {
	err := r.connectSignal(from, to, input)
	r.rt.Hooks.Engine.OnConnect(true, err)
	return err
}

func (r *Registry) connectSignal(from, to Handle, input int) error {
	src, ok := r.Resolve(from)
	if !ok {
		return errors.New(errors.ErrCodeStaleHandle, "source %s no longer exists", from)
	}
	dst, ok := r.Resolve(to)
	if !ok {
		return errors.New(errors.ErrCodeStaleHandle, "destination %s no longer exists", to)
	}
	if from == to {
		return errors.New(errors.ErrCodeSelfLoop, "%s cannot feed its own input", from)
	}
	if src.output == nil {
		return errors.New(errors.ErrCodeNoSuchSocket, "%s has no signal output", from)
	}
	in := dst.Input(input)
	if in == nil {
		return errors.New(errors.ErrCodeNoSuchSocket, "%s has no input %d", to, input)
	}
	if in.connected && in.source == from {
		return errors.New(errors.ErrCodeAlreadyConnected, "%s already feeds %s input %d", from, to, input)
	}
	if in.connected {
		r.DisconnectSignal(to, input)
	}

	in.source, in.connected = from, true
	src.output.targets = append(src.output.targets, Endpoint{Unit: to, Index: input})
	r.rt.Presenter.SpawnCable(Cable{From: from, To: to, Socket: input, Signal: true})
	return nil
}

// DisconnectSignal removes the connection on input index of to and
// returns the voice that fed it.
func (r *Registry) DisconnectSignal(to Handle, input int) (Handle, bool) {
	dst, ok := r.Resolve(to)
	if !ok {
		return Handle{}, false
	}
	in := dst.Input(input)
	if in == nil || !in.connected {
		return Handle{}, false
	}
	from := in.source
	if src, ok := r.Resolve(from); ok && src.output != nil {
		src.output.targets = removeEndpoint(src.output.targets, Endpoint{Unit: to, Index: input})
	}
	in.source, in.connected = Handle{}, false
	r.rt.Presenter.DestroyCable(Cable{From: from, To: to, Socket: input, Signal: true})
	return from, true
}

func (r *Registry) disconnectOutlet(u *Unit) {
	if u.outlet == nil {
		return
	}
	for _, e := range slices.Clone(u.outlet.targets) {
		r.Disconnect(e.Unit, e.Index)
	}
}

// disconnectAll removes every connection touching u, upstream and
// downstream.
func (r *Registry) disconnectAll(u *Unit) {
	for i := range u.inlets {
		r.Disconnect(u.handle, i)
	}
	for i := range u.inputs {
		r.DisconnectSignal(u.handle, i)
	}
	r.disconnectOutlet(u)
	if u.output != nil {
		for _, e := range slices.Clone(u.output.targets) {
			r.DisconnectSignal(e.Unit, e.Index)
		}
	}
}

// Cables returns every live connection, ordered by destination in registry
// order and then by socket index.
func (r *Registry) Cables() []Cable {
	var out []Cable
	for _, h := range r.All() {
		u := r.units[h.Kind][h.ID]
		for i, in := range u.inlets {
			if in.connected {
				out = append(out, Cable{From: in.source, To: h, Socket: i})
			}
		}
		for i, in := range u.inputs {
			if in.connected {
				out = append(out, Cable{From: in.source, To: h, Socket: i, Signal: true})
			}
		}
	}
	return out
}
