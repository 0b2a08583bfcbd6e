package patch

import "slices"

// VoiceProgram describes the sockets a voice program declares in its
// header. The program source itself is run by the synthesis backend.
type VoiceProgram struct {
	// Name is "category/name".
	Name string

	Inputs   []string
	Inlets   []string
	Outlet   bool
	LoadFile bool
	Reload   bool
}

// ProgramResolver looks up voice programs by name.
type ProgramResolver interface {
	Program(name string) (VoiceProgram, bool)
}

// NoPrograms resolves nothing.
type NoPrograms struct{}

func (NoPrograms) Program(string) (VoiceProgram, bool) { return VoiceProgram{}, false }

// ProgramMap is a fixed in-memory resolver.
type ProgramMap map[string]VoiceProgram

func (m ProgramMap) Program(name string) (VoiceProgram, bool) {
	p, ok := m[name]
	return p, ok
}

// Voice meta keys.
const (
	MetaProgram     = "program"
	MetaSpatialize  = "spatialize"
	MetaVolumeLocal = "volume_local"
	MetaPanning     = "panning"
)

// VoiceBehavior is the behaviour of every voice unit. The program runs in
// the synthesis backend; the control side only sees the value the backend
// publishes through the shared outlet array.
type VoiceBehavior struct {
	Program     VoiceProgram
	Spatialize  bool
	VolumeLocal float64
	Panning     float64
}

// Output returns the backend's last published value.
func (v *VoiceBehavior) Output(u *Unit) float64 {
	return u.reg.writer.Outlet(u.handle.ID)
}

func (v *VoiceBehavior) Properties() Meta {
	m := Meta{MetaProgram: v.Program.Name}
	m.SetBool(MetaSpatialize, v.Spatialize)
	m.SetFloat(MetaVolumeLocal, v.VolumeLocal)
	m.SetFloat(MetaPanning, v.Panning)
	return m
}

func (v *VoiceBehavior) Apply(m Meta) {
	v.Spatialize = m.Bool(MetaSpatialize, v.Spatialize)
	v.VolumeLocal = m.Float(MetaVolumeLocal, v.VolumeLocal)
	v.Panning = m.Float(MetaPanning, v.Panning)
}

// Reprogram swaps the program of a live voice and resizes its sockets to
// match. Connections on sockets that no longer exist are disconnected
// first; the rest are kept.
func (r *Registry) Reprogram(h Handle, prog VoiceProgram) error {
	u, ok := r.Resolve(h)
	if !ok {
		return ErrStaleHandle
	}
	v, ok := u.behavior.(*VoiceBehavior)
	if !ok {
		return ErrNoSuchSocket
	}
	if len(prog.Inlets) > MaxInlets {
		prog.Inlets = prog.Inlets[:MaxInlets]
	}

	for i := len(u.inputs) - 1; i >= len(prog.Inputs); i-- {
		r.DisconnectSignal(h, i)
	}
	for i := len(u.inlets) - 1; i >= len(prog.Inlets); i-- {
		r.Disconnect(h, i)
	}
	if !prog.Outlet && u.outlet != nil {
		r.disconnectOutlet(u)
		u.outlet = nil
	}

	u.inputs = resizeInputs(u.inputs, prog.Inputs)
	u.inlets = resizeInlets(u.inlets, prog.Inlets, h.ID)
	if prog.Outlet && u.outlet == nil {
		u.outlet = &Outlet{}
	}
	v.Program = prog
	r.rt.Logger.Debug("voice reprogrammed", "unit", h, "program", prog.Name,
		"inputs", len(prog.Inputs), "inlets", len(prog.Inlets))
	return nil
}

func resizeInputs(cur []*Input, names []string) []*Input {
	out := slices.Clone(cur[:min(len(cur), len(names))])
	for i, name := range names {
		if i < len(out) {
			out[i].Name = name
			continue
		}
		out = append(out, &Input{Name: name})
	}
	return out
}

func resizeInlets(cur []*Inlet, names []string, voiceID int) []*Inlet {
	out := slices.Clone(cur[:min(len(cur), len(names))])
	for i, name := range names {
		if i < len(out) {
			out[i].Name = name
			continue
		}
		out = append(out, &Inlet{Name: name, shared: SharedIndex(voiceID, i)})
	}
	return out
}
