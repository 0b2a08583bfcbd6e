package patch

import (
	"fmt"
	"strings"
)

// Kind is the closed set of unit kinds.
type Kind int

const (
	Control Kind = iota
	Voice
	Graphics

	numKinds = 3
)

// Pool sizes per kind.
const (
	ControlCapacity  = 1000
	VoiceCapacity    = 1000
	GraphicsCapacity = 100

	// MaxInlets is the number of shared-array slots reserved per voice.
	MaxInlets = 10
)

var kinds = [numKinds]Kind{Control, Voice, Graphics}

// Kinds returns every kind in registry order.
func Kinds() []Kind { return kinds[:] }

// Capacity returns the slot pool size of k, or 0 for an invalid kind.
func Capacity(k Kind) int {
	switch k {
	case Control:
		return ControlCapacity
	case Voice:
		return VoiceCapacity
	case Graphics:
		return GraphicsCapacity
	}
	return 0
}

// Valid reports whether k is one of the three kinds.
func (k Kind) Valid() bool { return k >= Control && k <= Graphics }

func (k Kind) String() string {
	switch k {
	case Control:
		return "control"
	case Voice:
		return "voice"
	case Graphics:
		return "graphics"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind parses the lowercase kind names produced by [Kind.String].
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "control":
		return Control, nil
	case "voice":
		return Voice, nil
	case "graphics":
		return Graphics, nil
	}
	return 0, fmt.Errorf("unknown unit kind %q", s)
}

// MarshalText encodes k by name so project files stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid unit kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Handle identifies a unit by kind and slot id. Handles are plain values;
// they never keep a unit alive and may refer to a destroyed unit.
type Handle struct {
	Kind Kind `json:"kind"`
	ID   int  `json:"id"`
}

func (h Handle) String() string { return fmt.Sprintf("%s:%d", h.Kind, h.ID) }

// Vec3 is a canvas position. It is display-only.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool { return v == Vec3{} }
