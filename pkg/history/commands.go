package history

import (
	"fmt"

	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/snapshot"
)

// =============================================================================
// Spawn and destroy
// =============================================================================

// Spawn records the creation of the units in a snapshot.
type Spawn struct {
	snap snapshot.Snapshot
}

// NewSpawn returns a spawn command for units that already exist and are
// described by snap.
func NewSpawn(snap snapshot.Snapshot) *Spawn { return &Spawn{snap: snap} }

// Undo captures the current state of the spawned units, edits made since
// included, and destroys them.
func (c *Spawn) Undo(reg *patch.Registry) {
	handles := c.snap.Handles()
	c.snap = snapshot.Capture(reg, handles, true)
	destroy(reg, c.snap)
}

// Redo rebuilds the units at their original ids.
func (c *Spawn) Redo(reg *patch.Registry) {
	rebuild(reg, c.snap)
}

func (c *Spawn) String() string { return fmt.Sprintf("spawn(%d)", len(c.snap.Handles())) }

// Destroy records the removal of the units in a snapshot. The snapshot
// should include relatives so edges to surviving units come back on undo.
type Destroy struct {
	snap snapshot.Snapshot
}

// NewDestroy returns a destroy command for the units in snap, captured
// before they were destroyed.
func NewDestroy(snap snapshot.Snapshot) *Destroy { return &Destroy{snap: snap} }

// Undo rebuilds the destroyed units and their connections.
func (c *Destroy) Undo(reg *patch.Registry) {
	rebuild(reg, c.snap)
}

// Redo destroys the units again. Relative records are left alone.
func (c *Destroy) Redo(reg *patch.Registry) {
	destroy(reg, c.snap)
}

func (c *Destroy) String() string { return fmt.Sprintf("destroy(%d)", len(c.snap.Handles())) }

func destroy(reg *patch.Registry, snap snapshot.Snapshot) {
	for _, h := range snap.Handles() {
		reg.Destroy(h)
	}
}

func rebuild(reg *patch.Registry, snap snapshot.Snapshot) {
	if _, err := snapshot.Reconstruct(reg, snap, patch.Vec3{}, true); err != nil {
		reg.Runtime().Logger.Warn("history: restore incomplete", "err", err)
	}
}

// =============================================================================
// Connections
// =============================================================================

// Link identifies one connection: the source unit, the destination unit
// and the destination socket index.
type Link struct {
	From   patch.Handle
	To     patch.Handle
	Socket int
}

func (l Link) String() string { return fmt.Sprintf("%s->%s[%d]", l.From, l.To, l.Socket) }

// Connect records an outlet to inlet connection.
type Connect struct{ Link }

// NewConnect returns a command for the connection from -> to[inlet].
func NewConnect(from, to patch.Handle, inlet int) *Connect {
	return &Connect{Link{From: from, To: to, Socket: inlet}}
}

func (c *Connect) Undo(reg *patch.Registry) { unlink(reg, c.Link, false) }
func (c *Connect) Redo(reg *patch.Registry) { link(reg, c.Link, false) }
func (c *Connect) String() string           { return "connect " + c.Link.String() }

// Disconnect records the removal of an outlet to inlet connection.
type Disconnect struct{ Link }

// NewDisconnect returns a command for the removed connection from -> to[inlet].
func NewDisconnect(from, to patch.Handle, inlet int) *Disconnect {
	return &Disconnect{Link{From: from, To: to, Socket: inlet}}
}

func (c *Disconnect) Undo(reg *patch.Registry) { link(reg, c.Link, false) }
func (c *Disconnect) Redo(reg *patch.Registry) { unlink(reg, c.Link, false) }
func (c *Disconnect) String() string           { return "disconnect " + c.Link.String() }

// ConnectSignal records a voice output to input connection.
type ConnectSignal struct{ Link }

// NewConnectSignal returns a command for the signal connection from -> to[input].
func NewConnectSignal(from, to patch.Handle, input int) *ConnectSignal {
	return &ConnectSignal{Link{From: from, To: to, Socket: input}}
}

func (c *ConnectSignal) Undo(reg *patch.Registry) { unlink(reg, c.Link, true) }
func (c *ConnectSignal) Redo(reg *patch.Registry) { link(reg, c.Link, true) }
func (c *ConnectSignal) String() string           { return "connect-signal " + c.Link.String() }

// DisconnectSignal records the removal of a signal connection.
type DisconnectSignal struct{ Link }

// NewDisconnectSignal returns a command for the removed signal connection
// from -> to[input].
func NewDisconnectSignal(from, to patch.Handle, input int) *DisconnectSignal {
	return &DisconnectSignal{Link{From: from, To: to, Socket: input}}
}

func (c *DisconnectSignal) Undo(reg *patch.Registry) { link(reg, c.Link, true) }
func (c *DisconnectSignal) Redo(reg *patch.Registry) { unlink(reg, c.Link, true) }
func (c *DisconnectSignal) String() string           { return "disconnect-signal " + c.Link.String() }

func link(reg *patch.Registry, l Link, signal bool) {
	var err error
	if signal {
		err = reg.ConnectSignal(l.From, l.To, l.Socket)
	} else {
		err = reg.Connect(l.From, l.To, l.Socket)
	}
	if err != nil {
		reg.Runtime().Logger.Debug("history: link skipped", "link", l, "err", err)
	}
}

// unlink removes the connection only while l.From still feeds it.
func unlink(reg *patch.Registry, l Link, signal bool) {
	u, ok := reg.Resolve(l.To)
	if !ok {
		return
	}
	if signal {
		if in := u.Input(l.Socket); in != nil {
			if src, ok := in.Source(); ok && src == l.From {
				reg.DisconnectSignal(l.To, l.Socket)
			}
		}
		return
	}
	if in := u.Inlet(l.Socket); in != nil {
		if src, ok := in.Source(); ok && src == l.From {
			reg.Disconnect(l.To, l.Socket)
		}
	}
}

// =============================================================================
// Move
// =============================================================================

// Move records a rigid displacement of several units. The first handle
// is the lead unit whose recorded positions anchor undo and redo.
type Move struct {
	handles  []patch.Handle
	from, to patch.Vec3
}

// NewMove returns a move command for handles whose lead unit went from
// from to to. It reports false when there is nothing to record: no
// handles or a zero displacement.
func NewMove(handles []patch.Handle, from, to patch.Vec3) (*Move, bool) {
	if len(handles) == 0 || to.Sub(from).IsZero() {
		return nil, false
	}
	return &Move{handles: append([]patch.Handle(nil), handles...), from: from, to: to}, true
}

func (c *Move) Undo(reg *patch.Registry) { c.place(reg, c.from) }
func (c *Move) Redo(reg *patch.Registry) { c.place(reg, c.to) }

func (c *Move) String() string { return fmt.Sprintf("move(%d)", len(c.handles)) }

// place shifts every unit so that the lead lands on target.
func (c *Move) place(reg *patch.Registry, target patch.Vec3) {
	lead, ok := reg.Resolve(c.handles[0])
	if !ok {
		return
	}
	delta := target.Sub(lead.Position())
	for _, h := range c.handles {
		if u, ok := reg.Resolve(h); ok {
			reg.Move(h, u.Position().Add(delta))
		}
	}
}
