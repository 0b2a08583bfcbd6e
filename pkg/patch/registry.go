package patch

import (
	"slices"

	"github.com/matzehuels/raytone/pkg/errors"
)

// Registry owns every unit of a patch, indexed by kind and slot id.
// It is not safe for concurrent use; all calls come from the main loop.
type Registry struct {
	rt     *Runtime
	writer SharedWriter

	units  [numKinds][]*Unit
	counts [numKinds]int

	selection []Handle

	cycled  bool
	cycleAt Handle
}

// NewRegistry returns an empty registry. Nil collaborators in rt are
// replaced by their defaults.
func NewRegistry(rt *Runtime) *Registry {
	if rt == nil {
		rt = &Runtime{}
	}
	rt.fillDefaults()
	r := &Registry{rt: rt, writer: rt.Shared.Writer()}
	for _, k := range kinds {
		r.units[k] = make([]*Unit, Capacity(k))
	}
	return r
}

// Runtime returns the registry's runtime.
func (r *Registry) Runtime() *Runtime { return r.rt }

// SpawnOption configures [Registry.Spawn].
type SpawnOption func(*spawnOptions)

type spawnOptions struct {
	id       int
	explicit bool
	asset    string
	meta     Meta
}

// WithID spawns into an explicit slot. It is used by undo, redo and load to
// preserve identity.
func WithID(id int) SpawnOption {
	return func(o *spawnOptions) { o.id, o.explicit = id, true }
}

// WithAsset sets the file the unit plays or displays.
func WithAsset(path string) SpawnOption {
	return func(o *spawnOptions) { o.asset = path }
}

// WithMeta applies properties to the behaviour before it is attached.
func WithMeta(m Meta) SpawnOption {
	return func(o *spawnOptions) { o.meta = m }
}

// Spawn creates a unit of kind from the factory key (or, for voices, the
// program name) at pos and returns its handle. Without [WithID] the lowest
// free slot is used.
func (r *Registry) Spawn(kind Kind, key string, pos Vec3, opts ...SpawnOption) (Handle, error) {
	h, err := r.spawn(kind, key, pos, opts)
	r.rt.Hooks.Engine.OnSpawn(kind.String(), key, err)
	if err != nil {
		return Handle{}, err
	}
	return h, nil
}

func (r *Registry) spawn(kind Kind, key string, pos Vec3, opts []SpawnOption) (Handle, error) {
	var o spawnOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !kind.Valid() {
		return Handle{}, errors.New(errors.ErrCodeUnknownFactoryKey, "invalid kind %d for %q", int(kind), key)
	}

	u := &Unit{reg: r, key: key, asset: o.asset, pos: pos}

	var spec Spec
	var prog VoiceProgram
	if kind == Voice {
		p, ok := r.rt.Programs.Program(key)
		if !ok {
			return Handle{}, errors.New(errors.ErrCodeUnknownFactoryKey, "no voice program %q", key)
		}
		prog = p
	} else {
		s, ok := r.rt.Factory.Lookup(kind, key)
		if !ok {
			return Handle{}, errors.New(errors.ErrCodeUnknownFactoryKey, "no %s unit %q", kind, key)
		}
		if s.Single && r.countKey(kind, key) > 0 {
			return Handle{}, errors.New(errors.ErrCodeDuplicateSingleton, "only one %s allowed", key)
		}
		spec = s
	}

	id, err := r.allocate(kind, o)
	if err != nil {
		return Handle{}, err
	}
	u.handle = Handle{Kind: kind, ID: id}

	if kind == Voice {
		if len(prog.Inlets) > MaxInlets {
			prog.Inlets = prog.Inlets[:MaxInlets]
		}
		u.inputs = resizeInputs(nil, prog.Inputs)
		u.inlets = resizeInlets(nil, prog.Inlets, id)
		u.output = &Output{}
		if prog.Outlet {
			u.outlet = &Outlet{}
		}
		u.behavior = &VoiceBehavior{Program: prog, VolumeLocal: r.rt.LocalGain}
	} else {
		u.inlets = make([]*Inlet, len(spec.Inlets))
		for i, name := range spec.Inlets {
			u.inlets[i] = &Inlet{Name: name, shared: -1}
		}
		if spec.Outlet {
			u.outlet = &Outlet{}
		}
		u.behavior = spec.New()
	}

	if p, ok := u.behavior.(Persister); ok && o.meta != nil {
		p.Apply(o.meta)
	}

	r.units[kind][id] = u
	r.counts[kind]++

	if a, ok := u.behavior.(Attacher); ok {
		a.Attach(u)
	}
	r.rt.Presenter.SpawnUnit(u.handle, key, pos)
	r.rt.Logger.Debug("unit spawned", "unit", u.handle, "key", key)
	return u.handle, nil
}

func (r *Registry) allocate(kind Kind, o spawnOptions) (int, error) {
	slots := r.units[kind]
	if o.explicit {
		if o.id < 0 || o.id >= len(slots) {
			return 0, errors.New(errors.ErrCodeInvalidSlot, "%s slot %d outside 0..%d", kind, o.id, len(slots)-1)
		}
		if slots[o.id] != nil {
			return 0, errors.New(errors.ErrCodeSlotInUse, "%s slot %d in use", kind, o.id)
		}
		return o.id, nil
	}
	for id, u := range slots {
		if u == nil {
			return id, nil
		}
	}
	return 0, errors.New(errors.ErrCodeSlotExhausted, "all %d %s slots in use", len(slots), kind)
}

func (r *Registry) countKey(kind Kind, key string) int {
	n := 0
	for _, u := range r.units[kind] {
		if u != nil && u.key == key {
			n++
		}
	}
	return n
}

// Destroy removes the unit behind h. Every socket is disconnected, and
// every cable destroyed, before the slot is freed. A stale handle is a
// no-op.
func (r *Registry) Destroy(h Handle) {
	u, ok := r.Resolve(h)
	if !ok {
		return
	}
	r.disconnectAll(u)
	if d, ok := u.behavior.(Detacher); ok {
		d.Detach(u)
	}
	if i := slices.Index(r.selection, h); i >= 0 {
		r.selection = slices.Delete(r.selection, i, i+1)
	}
	if h.Kind == Voice {
		for _, in := range u.inlets {
			r.writer.Clear(in.shared)
		}
		r.writer.ClearOutlet(h.ID)
	}
	r.units[h.Kind][h.ID] = nil
	r.counts[h.Kind]--

	r.rt.Presenter.DestroyUnit(h)
	r.rt.Hooks.Engine.OnDestroy(h.Kind.String())
	r.rt.Logger.Debug("unit destroyed", "unit", h)
}

// Clear destroys every unit.
func (r *Registry) Clear() {
	for _, h := range r.All() {
		r.Destroy(h)
	}
}

// Resolve returns the unit behind h, or false if h is stale.
func (r *Registry) Resolve(h Handle) (*Unit, bool) {
	if !h.Kind.Valid() || h.ID < 0 || h.ID >= len(r.units[h.Kind]) {
		return nil, false
	}
	u := r.units[h.Kind][h.ID]
	return u, u != nil
}

// Len returns the number of live units.
func (r *Registry) Len() int {
	n := 0
	for _, c := range r.counts {
		n += c
	}
	return n
}

// Count returns the number of live units of kind.
func (r *Registry) Count(kind Kind) int {
	if !kind.Valid() {
		return 0
	}
	return r.counts[kind]
}

// Units returns the live units of kind in ascending id order.
func (r *Registry) Units(kind Kind) []*Unit {
	if !kind.Valid() {
		return nil
	}
	out := make([]*Unit, 0, r.counts[kind])
	for _, u := range r.units[kind] {
		if u != nil {
			out = append(out, u)
		}
	}
	return out
}

// All returns every live handle in registry order: by kind, then id.
func (r *Registry) All() []Handle {
	out := make([]Handle, 0, r.Len())
	for _, k := range kinds {
		for _, u := range r.units[k] {
			if u != nil {
				out = append(out, u.handle)
			}
		}
	}
	return out
}

// Move places the unit at pos. It reports false for a stale handle.
func (r *Registry) Move(h Handle, pos Vec3) bool {
	u, ok := r.Resolve(h)
	if !ok {
		return false
	}
	u.pos = pos
	r.rt.Presenter.MoveUnit(h, pos)
	return true
}

// SetAsset repoints the unit's asset file, as done after a project save
// copies assets next to the project.
func (r *Registry) SetAsset(h Handle, path string) bool {
	u, ok := r.Resolve(h)
	if !ok {
		return false
	}
	u.asset = path
	return true
}

// =============================================================================
// Selection
// =============================================================================

// Select adds h to the selection and notifies the presenter.
func (r *Registry) Select(h Handle) bool {
	u, ok := r.Resolve(h)
	if !ok {
		return false
	}
	if !u.selected {
		u.selected = true
		r.selection = append(r.selection, h)
		r.rt.Presenter.Selected(h, true)
	}
	return true
}

// Deselect removes h from the selection and notifies the presenter.
func (r *Registry) Deselect(h Handle) {
	u, ok := r.Resolve(h)
	if !ok || !u.selected {
		return
	}
	u.selected = false
	if i := slices.Index(r.selection, h); i >= 0 {
		r.selection = slices.Delete(r.selection, i, i+1)
	}
	r.rt.Presenter.Selected(h, false)
}

// DeselectAll clears the selection.
func (r *Registry) DeselectAll() {
	for _, h := range slices.Clone(r.selection) {
		r.Deselect(h)
	}
}

// SelectAll selects every live unit.
func (r *Registry) SelectAll() {
	for _, h := range r.All() {
		r.Select(h)
	}
}

// Selection returns the selected handles in selection order.
func (r *Registry) Selection() []Handle { return slices.Clone(r.selection) }
