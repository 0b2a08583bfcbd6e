package patch

import (
	"math"
	"sync/atomic"
)

// SharedSize is the length of each shared inlet array.
const SharedSize = VoiceCapacity * MaxInlets

// SharedIndex returns the shared-array index of a voice inlet.
func SharedIndex(voiceID, inlet int) int { return voiceID*MaxInlets + inlet }

// SharedArrays are the fixed-size scalar arrays exchanged with the audio
// backend. They are allocated once and never resized. Each element is read
// and written atomically, so a reader on another goroutine observes either
// the old or the new value of a slot.
//
// Inlet arrays (value, trigger, status) have one writer, the engine, holding
// a [SharedWriter]. The outlet array flows the other way: the backend
// writes voice outputs through an [OutletWriter] and the engine reads them
// when a voice is pulled.
type SharedArrays struct {
	values   []atomic.Uint64
	triggers []atomic.Int32
	status   []atomic.Int32
	outlets  []atomic.Uint64
}

// NewSharedArrays allocates the arrays.
func NewSharedArrays() *SharedArrays {
	return &SharedArrays{
		values:   make([]atomic.Uint64, SharedSize),
		triggers: make([]atomic.Int32, SharedSize),
		status:   make([]atomic.Int32, SharedSize),
		outlets:  make([]atomic.Uint64, VoiceCapacity),
	}
}

// Writer returns the engine-side view.
func (s *SharedArrays) Writer() SharedWriter { return SharedWriter{s: s} }

// Reader returns the backend-side view.
func (s *SharedArrays) Reader() SharedReader { return SharedReader{s: s} }

// OutletWriter returns the backend-side view used to publish voice outputs.
func (s *SharedArrays) OutletWriter() OutletWriter { return OutletWriter{s: s} }

// SharedWriter writes inlet state and reads voice outputs.
type SharedWriter struct{ s *SharedArrays }

// Set publishes one inlet.
func (w SharedWriter) Set(index int, value float64, trigger int, connected bool) {
	w.s.values[index].Store(math.Float64bits(value))
	w.s.triggers[index].Store(int32(trigger))
	w.s.status[index].Store(boolInt32(connected))
}

// Clear zeroes value, trigger and status of one inlet.
func (w SharedWriter) Clear(index int) {
	w.s.values[index].Store(0)
	w.s.triggers[index].Store(0)
	w.s.status[index].Store(0)
}

// Outlet returns the last output published by a voice.
func (w SharedWriter) Outlet(voiceID int) float64 {
	return math.Float64frombits(w.s.outlets[voiceID].Load())
}

// ClearOutlet zeroes a voice output. It is called when a voice slot is freed
// so a reused slot never reports a previous occupant's output.
func (w SharedWriter) ClearOutlet(voiceID int) { w.s.outlets[voiceID].Store(0) }

// SharedReader reads inlet state.
type SharedReader struct{ s *SharedArrays }

// Value returns the value of one inlet.
func (r SharedReader) Value(index int) float64 {
	return math.Float64frombits(r.s.values[index].Load())
}

// Trigger returns the trigger of one inlet.
func (r SharedReader) Trigger(index int) int { return int(r.s.triggers[index].Load()) }

// Connected reports whether the inlet has a source.
func (r SharedReader) Connected(index int) bool { return r.s.status[index].Load() != 0 }

// OutletWriter publishes voice outputs.
type OutletWriter struct{ s *SharedArrays }

// SetOutlet stores the current output of a voice.
func (w OutletWriter) SetOutlet(voiceID int, v float64) {
	w.s.outlets[voiceID].Store(math.Float64bits(v))
}

func boolInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
