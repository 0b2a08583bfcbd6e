package engine

import (
	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/history"
	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/project"
	"github.com/matzehuels/raytone/pkg/snapshot"
)

// Snapshot captures the whole patch.
func (e *Engine) Snapshot() snapshot.Snapshot {
	return snapshot.Capture(e.reg, e.reg.All(), false)
}

// Save writes the patch as a project at path and points units at the asset
// copies made for it. It returns the project file written.
func (e *Engine) Save(path string) (string, error) {
	snap := e.Snapshot()
	saved, err := project.Save(path, snap)
	if err != nil {
		e.logger.Warn("save failed", "path", path, "err", err)
		return "", err
	}
	for i, asset := range saved.Relinked {
		e.reg.SetAsset(snap.Units[i].Handle(), asset)
	}
	e.logger.Info("project saved", "path", saved.Path, "units", snap.Len(), "assets", len(saved.Relinked))
	return saved.Path, nil
}

// Load adds the units of the project at path to the patch with fresh ids.
// The load is recorded as one Spawn command, so it can be undone. Records
// that could not be rebuilt, and connections whose source index is out of
// range, are reported in the returned error while the rest stay loaded.
func (e *Engine) Load(path string) ([]patch.Handle, error) {
	snap, err := project.Import(path)
	if err != nil {
		e.logger.Warn("load failed", "path", path, "err", err)
		return nil, err
	}
	handles, err := snapshot.Reconstruct(e.reg, snap, patch.Vec3{}, false)
	if err != nil {
		e.logger.Warn("load incomplete", "path", path, "err", err)
	}
	if len(handles) > 0 {
		e.hist.Record(history.NewSpawn(snapshot.Capture(e.reg, handles, false)))
	}
	e.logger.Info("project loaded", "path", path, "units", len(handles))
	return handles, err
}

// New clears the patch, the history and any deferred operation.
func (e *Engine) New() {
	e.mu.Lock()
	e.deferred = nil
	e.mu.Unlock()
	e.reg.Clear()
	e.hist.Clear()
	e.logger.Debug("patch cleared")
}

// AutoSave writes the patch to the autosave project and returns its path.
func (e *Engine) AutoSave() (string, error) {
	if e.dataDir == "" {
		return "", errors.New(errors.ErrCodeInvalidConfig, "no data directory for autosave")
	}
	path, err := project.AutoSave(e.dataDir, e.Snapshot())
	if err != nil {
		e.logger.Warn("autosave failed", "err", err)
		return "", err
	}
	e.logger.Debug("autosaved", "path", path)
	return path, nil
}
