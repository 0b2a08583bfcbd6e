package project

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/snapshot"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(b)
}

func sample(asset string) snapshot.Snapshot {
	return snapshot.Snapshot{Version: snapshot.Version, Units: []snapshot.Record{
		{Kind: patch.Control, ID: 0, Key: "Number", Meta: patch.Meta{"number": "440"}},
		{Kind: patch.Voice, ID: 3, Key: "osc/sine", Asset: asset, Position: patch.Vec3{X: 2}, Inlets: []int{0, -1}},
	}}
}

func TestWriteReadJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample("kick.wav"), &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	for _, want := range []string{`"type": "control"`, `"type": "voice"`, `"file": "kick.wav"`, `"inlets": [`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output lacks %s:\n%s", want, buf.String())
		}
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Len() != 2 || got.Units[1].ID != 3 || got.Units[1].Inlets[0] != 0 || got.Units[0].Meta["number"] != "440" {
		t.Errorf("ReadJSON() = %+v", got)
	}
}

func TestReadJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"newer version", `{"version":99,"units":[]}`, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader(`{"units":[{"type":"audio"}]}`)); err == nil {
		t.Error("ReadJSON() accepted an unknown kind")
	}
}

func TestReadJSONKeepsBadIndices(t *testing.T) {
	doc := `{"version":1,"units":[{"type":"control","id":0,"key":"Number"},{"type":"control","id":1,"key":"Monitor","inlets":[4]}]}`
	got, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Len() != 2 || got.Units[1].Inlets[0] != 4 {
		t.Errorf("ReadJSON() = %+v", got)
	}
}

func TestExportIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "Song.rt")
	writeFile(t, path, "old")

	if err := Export(sample(""), path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(readFile(t, path), `"units"`) {
		t.Error("Export() did not replace the old file")
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the project", len(entries))
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "Old_RayToneProject", "Old.rt")
	writeFile(t, existing, "{}")

	if got, want := Dir(existing), filepath.Dir(existing); got != want {
		t.Errorf("Dir(existing) = %s, want %s", got, want)
	}
	fresh := filepath.Join(dir, "Song.rt")
	if got, want := Dir(fresh), filepath.Join(dir, "Song_RayToneProject"); got != want {
		t.Errorf("Dir(new) = %s, want %s", got, want)
	}
}

func TestSaveAndImport(t *testing.T) {
	dir := t.TempDir()
	asset := filepath.Join(dir, "media", "kick.wav")
	writeFile(t, asset, "RIFF")

	saved, err := Save(filepath.Join(dir, "Song.rt"), sample(asset))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	projDir := filepath.Join(dir, "Song_RayToneProject")
	if saved.Path != filepath.Join(projDir, "Song.rt") {
		t.Errorf("Path = %s", saved.Path)
	}
	copied := filepath.Join(projDir, AssetsDir, "kick.wav")
	if readFile(t, copied) != "RIFF" {
		t.Error("asset not copied")
	}
	if saved.Relinked[1] != copied || len(saved.Relinked) != 1 {
		t.Errorf("Relinked = %v", saved.Relinked)
	}
	if !strings.Contains(readFile(t, saved.Path), `"file": "kick.wav"`) {
		t.Error("project stores a full asset path")
	}

	snap, err := Import(saved.Path)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if snap.Units[1].Asset != copied {
		t.Errorf("imported asset = %s, want %s", snap.Units[1].Asset, copied)
	}

	// Saving again over the existing file keeps the directory and does not
	// overwrite the asset already there.
	writeFile(t, asset, "changed")
	again, err := Save(saved.Path, sample(asset))
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if again.Path != saved.Path || len(again.Relinked) != 0 {
		t.Errorf("second save = %+v", again)
	}
	if readFile(t, copied) != "RIFF" {
		t.Error("existing asset overwritten")
	}
}

func TestSaveErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Save(filepath.Join(dir, "Song.json"), sample("")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Save(.json) error = %v", err)
	}
	if _, err := Save(filepath.Join(dir, "Song.rt"), sample(filepath.Join(dir, "missing.wav"))); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Save(missing asset) error = %v", err)
	}
	if _, err := Import(filepath.Join(dir, "nothing.rt")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import(missing) error = %v", err)
	}
}

func TestAutoSavePrunesStaleAssets(t *testing.T) {
	data := t.TempDir()
	media := t.TempDir()
	kick := filepath.Join(media, "kick.wav")
	writeFile(t, kick, "v1")

	path, err := AutoSave(data, sample(kick))
	if err != nil {
		t.Fatalf("AutoSave() error = %v", err)
	}
	if path != AutoSavePath(data) {
		t.Errorf("AutoSave() path = %s", path)
	}
	assets := filepath.Join(filepath.Dir(path), AssetsDir)
	stale := filepath.Join(assets, "old.png")
	writeFile(t, stale, "x")

	writeFile(t, kick, "v2")
	if _, err := AutoSave(data, sample(kick)); err != nil {
		t.Fatalf("AutoSave() error = %v", err)
	}
	if got := readFile(t, filepath.Join(assets, "kick.wav")); got != "v2" {
		t.Errorf("autosave asset = %q, want overwritten copy", got)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale asset survived")
	}
}
