// Package engine is the controller of a RayTone patch. It owns the unit
// registry and the command history, turns user edits into recorded
// commands, and drives the control-rate tick.
//
// An Engine is not safe for concurrent use. Callers on other goroutines
// either hold a lock around every call (as the HTTP server does) or hand
// work to the main loop with [Engine.Defer].
package engine

import (
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/raytone/pkg/clock"
	"github.com/matzehuels/raytone/pkg/history"
	"github.com/matzehuels/raytone/pkg/observability"
	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/patch/units"
	"github.com/matzehuels/raytone/pkg/snapshot"
)

// Options configures a new Engine. The zero value is usable.
type Options struct {
	Logger    *log.Logger
	Factory   *patch.Factory
	Programs  patch.ProgramResolver
	Presenter patch.Presenter
	Shared    *patch.SharedArrays
	Hooks     observability.Hooks

	// Now is the wall clock handed to time-based units.
	Now func() time.Time

	// Rand picks paste offsets. Defaults to a time-seeded source.
	Rand *rand.Rand

	BPM       int
	Volume    float64
	LocalGain float64

	// DataDir holds the autosave project. AutoSave fails when it is empty.
	DataDir string
}

// Engine is the patch controller.
type Engine struct {
	rt      *patch.Runtime
	reg     *patch.Registry
	hist    *history.History
	logger  *log.Logger
	rand    *rand.Rand
	dataDir string

	bpm    int
	volume float64

	clipboard snapshot.Snapshot

	mu       sync.Mutex
	deferred []func()
}

// New returns an engine with an empty patch.
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Factory == nil {
		opts.Factory = units.NewFactory()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if opts.BPM == 0 {
		opts.BPM = clock.DefaultBPM
	}

	rt := &patch.Runtime{
		Logger:    opts.Logger,
		Factory:   opts.Factory,
		Programs:  opts.Programs,
		Presenter: opts.Presenter,
		Shared:    opts.Shared,
		Hooks:     opts.Hooks,
		Now:       opts.Now,
		LocalGain: opts.LocalGain,
	}
	reg := patch.NewRegistry(rt)
	e := &Engine{
		rt:      rt,
		reg:     reg,
		hist:    history.New(reg),
		logger:  opts.Logger,
		rand:    opts.Rand,
		dataDir: opts.DataDir,
		bpm:     clock.ClampBPM(opts.BPM),
		volume:  1,
	}
	if opts.Volume != 0 {
		e.SetVolume(opts.Volume)
	}
	return e
}

// Registry returns the unit registry.
func (e *Engine) Registry() *patch.Registry { return e.reg }

// History returns the command history.
func (e *Engine) History() *history.History { return e.hist }

// Runtime returns the runtime shared by the registry and its units.
func (e *Engine) Runtime() *patch.Runtime { return e.rt }

// Defer queues fn to run at the start of the next tick, or before the next
// undo or redo. It is safe to call from any goroutine.
func (e *Engine) Defer(fn func()) {
	e.mu.Lock()
	e.deferred = append(e.deferred, fn)
	e.mu.Unlock()
}

// Pending returns the number of queued deferred operations.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.deferred)
}

// drain runs queued operations in FIFO order. Operations queued while
// draining run on the next drain.
func (e *Engine) drain() {
	e.mu.Lock()
	queue := e.deferred
	e.deferred = nil
	e.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
}

// Tick runs one control step: deferred operations, Step on every unit, then
// publication of connected voice inlets to the shared arrays. The returned
// error reports a cycle met while publishing.
func (e *Engine) Tick() error {
	e.drain()
	e.reg.Step()
	if err := e.reg.Publish(); err != nil {
		e.logger.Warn("evaluation cycle", "err", err)
		return err
	}
	return nil
}

// ResetStep rewinds every sequencing unit to its first step.
func (e *Engine) ResetStep() {
	e.reg.Reset()
	e.logger.Debug("step reset")
}

// BPM returns the tempo.
func (e *Engine) BPM() int { return e.bpm }

// SetBPM sets the tempo, clamped to [clock.MinBPM]..[clock.MaxBPM], and
// returns the value applied.
func (e *Engine) SetBPM(bpm int) int {
	e.bpm = clock.ClampBPM(bpm)
	return e.bpm
}

// Period returns the time between ticks at the current tempo.
func (e *Engine) Period() time.Duration { return clock.Period(e.bpm) }

// Volume returns the global volume.
func (e *Engine) Volume() float64 { return e.volume }

// SetVolume sets the global volume, clamped to 0..1.
func (e *Engine) SetVolume(v float64) float64 {
	e.volume = min(max(v, 0), 1)
	return e.volume
}

// VoiceGain returns the gain the backend applies to a voice. Only terminal
// voices, whose output feeds no other voice, are audible.
func (e *Engine) VoiceGain(h patch.Handle) float64 {
	u, ok := e.reg.Resolve(h)
	if !ok {
		return 0
	}
	v, ok := u.Behavior().(*patch.VoiceBehavior)
	if !ok || u.Output().Count() > 0 {
		return 0
	}
	return v.VolumeLocal * e.volume
}

// KeyDown forwards a key press to every unit watching the keyboard.
func (e *Engine) KeyDown(key string) {
	for _, u := range e.reg.Units(patch.Control) {
		if l, ok := u.Behavior().(patch.KeyListener); ok {
			l.KeyDown(key)
		}
	}
}

// KeyUp forwards a key release to every unit watching the keyboard.
func (e *Engine) KeyUp(key string) {
	for _, u := range e.reg.Units(patch.Control) {
		if l, ok := u.Behavior().(patch.KeyListener); ok {
			l.KeyUp(key)
		}
	}
}

// Press pushes the button of a unit. It reports false when the unit has
// none.
func (e *Engine) Press(h patch.Handle) bool {
	u, ok := e.reg.Resolve(h)
	if !ok {
		return false
	}
	p, ok := u.Behavior().(patch.Presser)
	if ok {
		p.Press()
	}
	return ok
}
