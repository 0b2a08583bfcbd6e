package patch

import (
	"fmt"
	"slices"

	"github.com/matzehuels/raytone/pkg/errors"
)

// Spec describes a control or graphics unit type.
type Spec struct {
	// Key is the stable name the unit is spawned by and saved under.
	Key string

	// Kind is Control or Graphics. Voices are described by programs.
	Kind Kind

	// Category groups keys in menus.
	Category string

	// Inlets names the scalar inlets, in index order.
	Inlets []string

	// Outlet reports whether the unit has a scalar outlet.
	Outlet bool

	// Single limits the patch to one live unit of this key.
	Single bool

	// New constructs a fresh behaviour.
	New func() Behavior
}

// Factory maps factory keys to unit specs. It is populated at startup and
// read-only afterwards.
type Factory struct {
	specs [numKinds]map[string]Spec
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	f := &Factory{}
	for i := range f.specs {
		f.specs[i] = make(map[string]Spec)
	}
	return f
}

// Register adds s. It fails on invalid or duplicate keys, on voice specs,
// on too many inlets and on a nil constructor.
func (f *Factory) Register(s Spec) error {
	if err := errors.ValidateFactoryKey(s.Key); err != nil {
		return err
	}
	if s.Kind != Control && s.Kind != Graphics {
		return errors.New(errors.ErrCodeInvalidKey, "%s: factories register control or graphics units, not %s", s.Key, s.Kind)
	}
	if len(s.Inlets) > MaxInlets {
		return errors.New(errors.ErrCodeInvalidKey, "%s: %d inlets exceeds the maximum of %d", s.Key, len(s.Inlets), MaxInlets)
	}
	if s.New == nil {
		return errors.New(errors.ErrCodeInvalidKey, "%s: missing constructor", s.Key)
	}
	if _, ok := f.specs[s.Kind][s.Key]; ok {
		return errors.New(errors.ErrCodeInvalidKey, "%s %q registered twice", s.Kind, s.Key)
	}
	s.Inlets = slices.Clone(s.Inlets)
	f.specs[s.Kind][s.Key] = s
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// startup registration of built-in units.
func (f *Factory) MustRegister(s Spec) {
	if err := f.Register(s); err != nil {
		panic(fmt.Sprintf("patch: %v", err))
	}
}

// Lookup returns the spec registered for kind and key.
func (f *Factory) Lookup(kind Kind, key string) (Spec, bool) {
	if !kind.Valid() {
		return Spec{}, false
	}
	s, ok := f.specs[kind][key]
	return s, ok
}

// Keys returns the sorted keys registered for kind.
func (f *Factory) Keys(kind Kind) []string {
	if !kind.Valid() {
		return nil
	}
	keys := make([]string, 0, len(f.specs[kind]))
	for k := range f.specs[kind] {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
