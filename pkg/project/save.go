package project

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/snapshot"
)

const (
	// Extension is the project file extension.
	Extension = errors.ProjectExtension

	// DirSuffix is appended to a new project's base name to form its directory.
	DirSuffix = "_RayToneProject"

	// AssetsDir is the asset folder inside a project directory.
	AssetsDir = "Assets"

	autoSaveName = "AutoSave"
)

// Dir returns the directory a project saved as path lives in. An existing
// file keeps its directory; a new one gets "<name>_RayToneProject" next to
// the chosen path.
func Dir(path string) string {
	if _, err := os.Stat(path); err == nil {
		return filepath.Dir(path)
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + DirSuffix
}

// Saved describes a completed save.
type Saved struct {
	// Path is the project file that was written.
	Path string

	// Relinked maps record indices to the asset copy made during this save.
	// Callers point the corresponding units at the copy.
	Relinked map[int]string
}

// Save writes snap as the project chosen at path, copying referenced
// assets into the project's Assets directory. Assets already present there
// are not overwritten. snap is not modified.
func Save(path string, snap snapshot.Snapshot) (*Saved, error) {
	if err := errors.ValidateProjectPath(path); err != nil {
		return nil, err
	}
	dir := Dir(path)
	snap, copied, err := collectAssets(snap, filepath.Join(dir, AssetsDir), false)
	if err != nil {
		return nil, err
	}
	out := &Saved{Path: filepath.Join(dir, filepath.Base(path)), Relinked: copied}
	if err := Export(snap, out.Path); err != nil {
		return nil, err
	}
	return out, nil
}

// AutoSavePath returns the autosave project file under dataDir.
func AutoSavePath(dataDir string) string {
	return filepath.Join(dataDir, autoSaveName, autoSaveName+DirSuffix, autoSaveName+Extension)
}

// AutoSave writes snap to the autosave project under dataDir. Assets are
// copied with overwrite and files in Assets/ that snap no longer references
// are deleted. Unit asset references are left alone. It returns the path
// written.
func AutoSave(dataDir string, snap snapshot.Snapshot) (string, error) {
	path := AutoSavePath(dataDir)
	assets := filepath.Join(filepath.Dir(path), AssetsDir)

	snap, _, err := collectAssets(snap, assets, true)
	if err != nil {
		return "", err
	}
	if err := Export(snap, path); err != nil {
		return "", err
	}

	keep := make(map[string]bool)
	for _, rec := range snap.Units {
		if rec.Asset != "" {
			keep[rec.Asset] = true
		}
	}
	entries, err := os.ReadDir(assets)
	if err != nil {
		return path, fmt.Errorf("list %s: %w", assets, err)
	}
	for _, e := range entries {
		if !e.IsDir() && !keep[e.Name()] {
			if err := os.Remove(filepath.Join(assets, e.Name())); err != nil {
				return path, fmt.Errorf("prune %s: %w", e.Name(), err)
			}
		}
	}
	return path, nil
}

// collectAssets returns a copy of snap whose asset references are bare
// file names, after copying each referenced file into assets. The map
// holds the destinations of the files copied, keyed by record index.
func collectAssets(snap snapshot.Snapshot, assets string, overwrite bool) (snapshot.Snapshot, map[int]string, error) {
	if err := os.MkdirAll(assets, 0755); err != nil {
		return snap, nil, fmt.Errorf("create %s: %w", assets, err)
	}

	units := make([]snapshot.Record, len(snap.Units))
	copy(units, snap.Units)
	snap.Units = units

	copied := make(map[int]string)
	for i := range units {
		src := units[i].Asset
		if src == "" {
			continue
		}
		name := filepath.Base(src)
		dst := filepath.Join(assets, name)
		units[i].Asset = name

		if sameFile(src, dst) {
			continue
		}
		if _, err := os.Stat(dst); err == nil && !overwrite {
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return snap, nil, err
		}
		copied[i] = dst
	}
	return snap, copied, nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "asset %s not found", src)
		}
		return fmt.Errorf("open asset: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
