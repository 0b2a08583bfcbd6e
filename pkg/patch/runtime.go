package patch

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/raytone/pkg/observability"
)

// DefaultLocalGain is the per-voice gain applied to new voices.
const DefaultLocalGain = 0.25

// Runtime carries the collaborators shared by every component of one
// patch: the unit factories, the voice program resolver, the presentation
// layer, the shared arrays and the hooks. It is built once and passed to
// the registry and the engine; nothing in this module keeps process-wide
// state.
type Runtime struct {
	Logger    *log.Logger
	Factory   *Factory
	Programs  ProgramResolver
	Presenter Presenter
	Shared    *SharedArrays
	Textures  *TextureTable
	Hooks     observability.Hooks

	// Now is the wall clock used by time-based units.
	Now func() time.Time

	// LocalGain is the volume_local given to voices spawned without one.
	LocalGain float64
}

// NewRuntime returns a runtime using factory with every other collaborator
// set to its default.
func NewRuntime(factory *Factory) *Runtime {
	rt := &Runtime{Factory: factory}
	rt.fillDefaults()
	return rt
}

func (rt *Runtime) fillDefaults() {
	if rt.Logger == nil {
		rt.Logger = log.New(io.Discard)
	}
	if rt.Factory == nil {
		rt.Factory = NewFactory()
	}
	if rt.Programs == nil {
		rt.Programs = NoPrograms{}
	}
	if rt.Presenter == nil {
		rt.Presenter = NopPresenter{}
	}
	if rt.Shared == nil {
		rt.Shared = NewSharedArrays()
	}
	if rt.Textures == nil {
		rt.Textures = NewTextureTable()
	}
	if rt.Now == nil {
		rt.Now = time.Now
	}
	if rt.LocalGain == 0 {
		rt.LocalGain = DefaultLocalGain
	}
	rt.Hooks = rt.Hooks.WithDefaults()
}
