package engine

import (
	"bytes"
	"context"

	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/history"
	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/project"
	"github.com/matzehuels/raytone/pkg/snapshot"
	"github.com/matzehuels/raytone/pkg/store"
)

// Paste offset bounds, in canvas units.
const (
	pasteMinX = 3
	pasteMaxX = 8
	pasteMaxZ = 3
)

// Copy captures the selection into the clipboard and returns the number of
// units copied. An empty selection leaves the clipboard unchanged.
func (e *Engine) Copy() int {
	snap := snapshot.Capture(e.reg, e.reg.Selection(), false)
	if snap.Len() == 0 {
		return 0
	}
	e.clipboard = snap
	return snap.Len()
}

// Clipboard returns the last copied snapshot.
func (e *Engine) Clipboard() snapshot.Snapshot { return e.clipboard }

// Paste rebuilds the clipboard next to the original units, at a random
// offset, and selects the copies.
func (e *Engine) Paste() ([]patch.Handle, error) {
	return e.paste(e.clipboard, e.pasteOffset())
}

// PasteAt rebuilds the clipboard so that its first unit lands on pos.
func (e *Engine) PasteAt(pos patch.Vec3) ([]patch.Handle, error) {
	lead, ok := e.clipboard.Lead()
	if !ok {
		return nil, nil
	}
	return e.paste(e.clipboard, pos.Sub(lead))
}

// Duplicate copies the selection and pastes it.
func (e *Engine) Duplicate() ([]patch.Handle, error) {
	if e.Copy() == 0 {
		return nil, nil
	}
	return e.Paste()
}

func (e *Engine) pasteOffset() patch.Vec3 {
	return patch.Vec3{
		X: pasteMinX + e.rand.Float64()*(pasteMaxX-pasteMinX),
		Z: (e.rand.Float64()*2 - 1) * pasteMaxZ,
	}
}

// paste rebuilds snap with fresh ids. The Spawn command is recorded on the
// next tick, once the new units are settled.
func (e *Engine) paste(snap snapshot.Snapshot, offset patch.Vec3) ([]patch.Handle, error) {
	if snap.Len() == 0 {
		return nil, nil
	}
	handles, err := snapshot.Reconstruct(e.reg, snap, offset, false)
	if err != nil {
		e.logger.Warn("paste incomplete", "err", err)
	}
	if len(handles) == 0 {
		return nil, err
	}
	e.reg.DeselectAll()
	for _, h := range handles {
		e.reg.Select(h)
	}
	e.Defer(func() {
		e.hist.Record(history.NewSpawn(snapshot.Capture(e.reg, handles, true)))
	})
	return handles, err
}

// Publish stores the selection under a new id and returns the id.
func (e *Engine) Publish(ctx context.Context, st store.Store) (string, error) {
	snap := snapshot.Capture(e.reg, e.reg.Selection(), false)
	if snap.Len() == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "nothing selected")
	}
	var buf bytes.Buffer
	if err := project.WriteJSON(snap, &buf); err != nil {
		return "", err
	}
	id := store.NewID()
	if err := st.Put(ctx, id, buf.Bytes()); err != nil {
		return "", err
	}
	e.logger.Info("published selection", "id", id, "units", snap.Len())
	return id, nil
}

// Fetch pastes the snapshot stored under id.
func (e *Engine) Fetch(ctx context.Context, st store.Store, id string) ([]patch.Handle, error) {
	data, ok, err := st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "snapshot %s not found", id)
	}
	snap, err := project.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return e.paste(snap, e.pasteOffset())
}
