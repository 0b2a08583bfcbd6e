// Package config loads and saves the user configuration.
//
// The configuration lives in a TOML file, by default
// ~/.config/raytone/config.toml (RAYTONE_CONFIG overrides the path).
// Every field can also be set from a RAYTONE_* environment variable, which
// wins over the file:
//
//	bpm = 128
//	volume = 0.8
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	RAYTONE_BPM=90 raytone play song.rt
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/raytone/pkg/clock"
	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/store"
)

// EnvPath names the variable that overrides the config file location.
const EnvPath = "RAYTONE_CONFIG"

// Config is the user configuration.
type Config struct {
	FirstTime         bool    `toml:"first_time" env:"RAYTONE_FIRST_TIME"`
	Volume            float64 `toml:"volume" env:"RAYTONE_VOLUME"`
	BPM               int     `toml:"bpm" env:"RAYTONE_BPM"`
	FullScreen        bool    `toml:"full_screen" env:"RAYTONE_FULL_SCREEN"`
	ResolutionDivider float64 `toml:"resolution_divider" env:"RAYTONE_RESOLUTION_DIVIDER"`
	PostProcessing    bool    `toml:"post_processing" env:"RAYTONE_POST_PROCESSING"`
	LocalGain         float64 `toml:"local_gain" env:"RAYTONE_LOCAL_GAIN"`

	// AutoSaveSeconds is the autosave period. Zero disables autosave.
	AutoSaveSeconds int `toml:"autosave_interval" env:"RAYTONE_AUTOSAVE_INTERVAL"`

	// ProgramDir holds voice programs as <category>/<name>.ck.
	ProgramDir string `toml:"program_dir" env:"RAYTONE_PROGRAM_DIR"`

	// DataDir holds the autosave project and the file snapshot store.
	DataDir string `toml:"data_dir" env:"RAYTONE_DATA_DIR"`

	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
}

// Store selects the shared snapshot store.
type Store struct {
	Backend       string `toml:"backend" env:"RAYTONE_STORE_BACKEND"`
	RedisAddr     string `toml:"redis_addr" env:"RAYTONE_STORE_REDIS_ADDR"`
	MongoURI      string `toml:"mongo_uri" env:"RAYTONE_STORE_MONGO_URI"`
	MongoDatabase string `toml:"mongo_database" env:"RAYTONE_STORE_MONGO_DATABASE"`
}

// Server configures the HTTP control surface.
type Server struct {
	Addr string `toml:"addr" env:"RAYTONE_SERVER_ADDR"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		FirstTime:         true,
		Volume:            1,
		BPM:               clock.DefaultBPM,
		ResolutionDivider: 2,
		PostProcessing:    true,
		LocalGain:         patch.DefaultLocalGain,
		AutoSaveSeconds:   300,
		Store:             Store{Backend: store.BackendFile},
		Server:            Server{Addr: ":7070"},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "raytone", "config.toml"), nil
}

// Load reads path on top of the defaults, applies environment overrides
// and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if _, err := toml.Decode(string(data), &cfg); err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as TOML.
func (c Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Validate clamps numeric fields into range, fills empty directories and
// rejects unknown store backends.
func (c *Config) Validate() error {
	c.Volume = min(max(c.Volume, 0), 1)
	c.BPM = clock.ClampBPM(c.BPM)
	c.LocalGain = max(c.LocalGain, 0)
	if c.ResolutionDivider < 1 {
		c.ResolutionDivider = 1
	}
	if c.AutoSaveSeconds < 0 {
		c.AutoSaveSeconds = 0
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, "RayTone")
	}
	if c.ProgramDir == "" {
		c.ProgramDir = filepath.Join(c.DataDir, "Programs")
	}

	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendFile
	}
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want one of %v)", c.Store.Backend, store.Backends)
	}
	if c.Store.Backend == store.BackendRedis && c.Store.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store backend redis needs redis_addr")
	}
	if c.Store.Backend == store.BackendMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store backend mongo needs mongo_uri")
	}
	return nil
}

// AutoSaveInterval returns the autosave period, or 0 when disabled.
func (c Config) AutoSaveInterval() time.Duration {
	return time.Duration(c.AutoSaveSeconds) * time.Second
}

// StoreOptions returns the options for [store.Open]. The file backend
// keeps its snapshots under DataDir/Store.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:       c.Store.Backend,
		Dir:           filepath.Join(c.DataDir, "Store"),
		RedisAddr:     c.Store.RedisAddr,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
}
