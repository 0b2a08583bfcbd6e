package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/store"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BPM != 120 || cfg.Volume != 1 || cfg.LocalGain != 0.25 || !cfg.FirstTime {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.AutoSaveInterval() != 300*time.Second {
		t.Errorf("AutoSaveInterval() = %v", cfg.AutoSaveInterval())
	}
	if cfg.ProgramDir != filepath.Join(cfg.DataDir, "Programs") {
		t.Errorf("ProgramDir = %s", cfg.ProgramDir)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	doc := `
bpm = 400
volume = 0.5
data_dir = "` + filepath.ToSlash(dir) + `"

[store]
backend = "none"
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RAYTONE_VOLUME", "2.5")
	t.Setenv("RAYTONE_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BPM != 250 {
		t.Errorf("BPM = %d, want clamped 250", cfg.BPM)
	}
	if cfg.Volume != 1 {
		t.Errorf("Volume = %v, want env value clamped to 1", cfg.Volume)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Backend != store.BackendNone {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
	if got := cfg.StoreOptions().Dir; got != filepath.Join(dir, "Store") {
		t.Errorf("StoreOptions().Dir = %s", got)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		store Store
	}{
		{"unknown backend", Store{Backend: "s3"}},
		{"redis without addr", Store{Backend: store.BackendRedis}},
		{"mongo without uri", Store{Backend: store.BackendMongo}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.DataDir = t.TempDir()
			cfg.Store = tt.store
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("bpm = ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.toml")
	cfg := Default()
	cfg.BPM = 90
	cfg.DataDir = dir
	cfg.FirstTime = false
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.BPM != 90 || got.FirstTime || got.DataDir != dir {
		t.Errorf("Load() = %+v", got)
	}
}

func TestPathHonoursEnv(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/custom.toml")
	if p, _ := Path(); p != "/tmp/custom.toml" {
		t.Errorf("Path() = %s", p)
	}
}
