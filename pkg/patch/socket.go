package patch

import "slices"

// Endpoint addresses one socket on a unit: an inlet or input index.
type Endpoint struct {
	Unit  Handle `json:"unit"`
	Index int    `json:"index"`
}

// Cable describes one live connection. Signal cables run Output->Input
// between voices; the others run Outlet->Inlet.
type Cable struct {
	From   Handle `json:"from"`
	To     Handle `json:"to"`
	Socket int    `json:"socket"`
	Signal bool   `json:"signal,omitempty"`
}

// Inlet is a scalar sink holding at most one connection.
type Inlet struct {
	Name string

	source    Handle
	connected bool
	shared    int // shared-array index for voice inlets, -1 otherwise
}

// Source returns the unit feeding this inlet.
func (in *Inlet) Source() (Handle, bool) { return in.source, in.connected }

// Connected reports whether the inlet has a source.
func (in *Inlet) Connected() bool { return in.connected }

// SharedIndex returns the shared-array index mirrored by this inlet, or -1
// when the inlet does not belong to a voice.
func (in *Inlet) SharedIndex() int { return in.shared }

// Outlet is a scalar source with fan-out.
type Outlet struct {
	targets []Endpoint
}

// Targets returns a copy of the inlets fed by this outlet.
func (o *Outlet) Targets() []Endpoint { return slices.Clone(o.targets) }

// Input is an audio-signal sink on a voice holding at most one connection.
type Input struct {
	Name string

	source    Handle
	connected bool
}

// Source returns the voice feeding this input.
func (in *Input) Source() (Handle, bool) { return in.source, in.connected }

// VoiceID returns the slot id of the connected voice, or -1. The synthesis
// backend uses it to wire its own signal graph.
func (in *Input) VoiceID() int {
	if !in.connected {
		return -1
	}
	return in.source.ID
}

// Output is an audio-signal source on a voice with fan-out.
type Output struct {
	targets []Endpoint
}

// Targets returns a copy of the inputs fed by this output.
func (o *Output) Targets() []Endpoint { return slices.Clone(o.targets) }

// Count returns the number of live connections. A voice whose output count
// is zero is terminal and plays directly.
func (o *Output) Count() int { return len(o.targets) }

func removeEndpoint(list []Endpoint, e Endpoint) []Endpoint {
	if i := slices.Index(list, e); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
