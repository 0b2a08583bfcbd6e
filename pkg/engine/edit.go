package engine

import (
	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/history"
	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/snapshot"
)

// =============================================================================
// Spawning
// =============================================================================

// SpawnControl spawns a control unit from the menu: the new unit becomes
// the selection and a Spawn command is recorded.
func (e *Engine) SpawnControl(key string, pos patch.Vec3) (patch.Handle, error) {
	return e.spawn(patch.Control, key, pos)
}

// SpawnVoice spawns a voice running program. asset is the file the voice
// plays and may be empty.
func (e *Engine) SpawnVoice(program, asset string, pos patch.Vec3) (patch.Handle, error) {
	if err := errors.ValidateProgramName(program); err != nil {
		e.logger.Warn("spawn refused", "kind", patch.Voice, "program", program, "err", err)
		return patch.Handle{}, err
	}
	return e.spawn(patch.Voice, program, pos, patch.WithAsset(asset))
}

// SpawnGraphics spawns a graphics unit. asset may be empty.
func (e *Engine) SpawnGraphics(key, asset string, pos patch.Vec3) (patch.Handle, error) {
	return e.spawn(patch.Graphics, key, pos, patch.WithAsset(asset))
}

func (e *Engine) spawn(kind patch.Kind, key string, pos patch.Vec3, opts ...patch.SpawnOption) (patch.Handle, error) {
	h, err := e.reg.Spawn(kind, key, pos, opts...)
	if err != nil {
		if errors.Is(err, errors.ErrCodeUnknownFactoryKey) {
			e.logger.Error("spawn failed", "kind", kind, "key", key, "err", err)
		} else {
			e.logger.Warn("spawn refused", "kind", kind, "key", key, "err", err)
		}
		return patch.Handle{}, err
	}
	e.reg.DeselectAll()
	e.reg.Select(h)
	e.hist.Record(history.NewSpawn(snapshot.Capture(e.reg, []patch.Handle{h}, false)))
	return h, nil
}

// =============================================================================
// Destroying
// =============================================================================

// Destroy removes the given units and records one Destroy command holding
// them and their neighbours. Stale handles are ignored.
func (e *Engine) Destroy(handles ...patch.Handle) int {
	snap := snapshot.Capture(e.reg, handles, true)
	live := snap.Handles()
	if len(live) == 0 {
		return 0
	}
	for _, h := range live {
		e.reg.Destroy(h)
	}
	e.hist.Record(history.NewDestroy(snap))
	return len(live)
}

// DestroySelected destroys the selection.
func (e *Engine) DestroySelected() int {
	return e.Destroy(e.reg.Selection()...)
}

// =============================================================================
// Connections
// =============================================================================

// Connect wires the outlet of from to an inlet of to. When the inlet was
// already fed, a Disconnect command for the old source is recorded before
// the Connect command.
func (e *Engine) Connect(from, to patch.Handle, inlet int) error {
	prev, had := e.inletSource(to, inlet)
	if err := e.reg.Connect(from, to, inlet); err != nil {
		e.logger.Warn("connect refused", "from", from, "to", to, "inlet", inlet, "err", err)
		return err
	}
	if had {
		e.hist.Record(history.NewDisconnect(prev, to, inlet))
	}
	e.hist.Record(history.NewConnect(from, to, inlet))
	return nil
}

// ConnectSignal wires the audio output of voice from to an input of voice
// to, recording commands as [Engine.Connect] does.
func (e *Engine) ConnectSignal(from, to patch.Handle, input int) error {
	prev, had := e.inputSource(to, input)
	if err := e.reg.ConnectSignal(from, to, input); err != nil {
		e.logger.Warn("connect refused", "from", from, "to", to, "input", input, "err", err)
		return err
	}
	if had {
		e.hist.Record(history.NewDisconnectSignal(prev, to, input))
	}
	e.hist.Record(history.NewConnectSignal(from, to, input))
	return nil
}

// Disconnect removes the connection on an inlet. It reports false when
// there was none.
func (e *Engine) Disconnect(to patch.Handle, inlet int) bool {
	prev, ok := e.reg.Disconnect(to, inlet)
	if ok {
		e.hist.Record(history.NewDisconnect(prev, to, inlet))
	}
	return ok
}

// DisconnectSignal removes the connection on a voice input.
func (e *Engine) DisconnectSignal(to patch.Handle, input int) bool {
	prev, ok := e.reg.DisconnectSignal(to, input)
	if ok {
		e.hist.Record(history.NewDisconnectSignal(prev, to, input))
	}
	return ok
}

func (e *Engine) inletSource(h patch.Handle, i int) (patch.Handle, bool) {
	u, ok := e.reg.Resolve(h)
	if !ok || u.Inlet(i) == nil {
		return patch.Handle{}, false
	}
	return u.Inlet(i).Source()
}

func (e *Engine) inputSource(h patch.Handle, i int) (patch.Handle, bool) {
	u, ok := e.reg.Resolve(h)
	if !ok || u.Input(i) == nil {
		return patch.Handle{}, false
	}
	return u.Input(i).Source()
}

// =============================================================================
// Selection and movement
// =============================================================================

// Select adds h to the selection.
func (e *Engine) Select(h patch.Handle) bool { return e.reg.Select(h) }

// Deselect removes h from the selection.
func (e *Engine) Deselect(h patch.Handle) { e.reg.Deselect(h) }

// SelectAll selects every unit.
func (e *Engine) SelectAll() { e.reg.SelectAll() }

// DeselectAll clears the selection.
func (e *Engine) DeselectAll() { e.reg.DeselectAll() }

// Selected returns the selection in selection order.
func (e *Engine) Selected() []patch.Handle { return e.reg.Selection() }

// Move displaces units by delta and records a Move command. It reports
// false when nothing moved.
func (e *Engine) Move(handles []patch.Handle, delta patch.Vec3) bool {
	var live []patch.Handle
	var from patch.Vec3
	for _, h := range handles {
		u, ok := e.reg.Resolve(h)
		if !ok {
			continue
		}
		if len(live) == 0 {
			from = u.Position()
		}
		live = append(live, h)
	}
	cmd, ok := history.NewMove(live, from, from.Add(delta))
	if !ok {
		return false
	}
	e.hist.Execute(cmd)
	return true
}

// MoveSelected displaces the selection by delta.
func (e *Engine) MoveSelected(delta patch.Vec3) bool {
	return e.Move(e.reg.Selection(), delta)
}

// =============================================================================
// History
// =============================================================================

// Undo drains deferred operations, then reverts the last command.
func (e *Engine) Undo() bool {
	e.drain()
	return e.hist.Undo()
}

// Redo drains deferred operations, then reapplies the next command.
func (e *Engine) Redo() bool {
	e.drain()
	return e.hist.Redo()
}
