package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/snapshot"
)

// ReadJSON decodes a project document. Asset names are returned as stored.
//
// Unknown kind names fail the decode and documents from a newer format
// version are rejected. Connection indices are left alone: a damaged index
// costs only its own connection, which [snapshot.Reconstruct] skips and
// reports.
func ReadJSON(r io.Reader) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	if snap.Version > snapshot.Version {
		return snapshot.Snapshot{}, errors.New(errors.ErrCodeUnsupported, "project version %d is newer than %d", snap.Version, snapshot.Version)
	}
	return snap, nil
}

// Import reads the project file at path and re-roots every asset name
// under the project's Assets directory.
func Import(path string) (snapshot.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return snapshot.Snapshot{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "project %s not found", path)
		}
		return snapshot.Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	snap, err := ReadJSON(f)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}

	assets := filepath.Join(filepath.Dir(path), AssetsDir)
	for i := range snap.Units {
		rec := &snap.Units[i]
		if rec.Asset == "" {
			continue
		}
		name := filepath.Base(rec.Asset)
		if err := errors.ValidateAssetName(name); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("%s: record %d: %w", path, i, err)
		}
		rec.Asset = filepath.Join(assets, name)
	}
	return snap, nil
}
