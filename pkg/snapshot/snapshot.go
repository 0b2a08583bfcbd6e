// Package snapshot flattens a set of units into a self-contained list of
// records and rebuilds units from it.
//
// Snapshots back every structural operation that must be replayed later:
// project save and load, copy and paste, and the spawn and destroy
// commands of the undo history. Connections are stored as indices into
// the snapshot's own record list, so a snapshot can be materialized at new
// slot ids (paste) or at the original ones (undo, load).
//
// A record may be marked relative. Relative records name a unit outside
// the captured set that is connected to it; on reconstruction they are
// resolved instead of spawned, so edges that cross the boundary of the
// captured set survive a destroy and its undo.
package snapshot

import (
	"fmt"

	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/patch"
)

// Version is the current snapshot format version.
const Version = 1

// Unconnected marks a socket without a source inside the snapshot.
const Unconnected = -1

// ErrIndexOutOfRange is reported for a connection whose source index lies
// outside the record list.
var ErrIndexOutOfRange = errors.New(errors.ErrCodeSnapshotIndexOutOfRange, "snapshot index out of range")

// Record is one flattened unit.
type Record struct {
	Kind     patch.Kind `json:"type"`
	ID       int        `json:"id"`
	Relative bool       `json:"relative,omitempty"`
	Key      string     `json:"key,omitempty"`
	Asset    string     `json:"file,omitempty"`
	Position patch.Vec3 `json:"location"`
	Meta     patch.Meta `json:"meta,omitempty"`

	// Inlets and Inputs hold, per socket, the index of the record that
	// feeds it or Unconnected.
	Inlets []int `json:"inlets,omitempty"`
	Inputs []int `json:"inputs,omitempty"`
}

// Handle returns the handle the record was captured from.
func (r Record) Handle() patch.Handle { return patch.Handle{Kind: r.Kind, ID: r.ID} }

// Snapshot is an ordered list of records.
type Snapshot struct {
	Version int      `json:"version"`
	Units   []Record `json:"units"`
}

// Len returns the number of records, relatives included.
func (s Snapshot) Len() int { return len(s.Units) }

// Handles returns the handles of the non-relative records.
func (s Snapshot) Handles() []patch.Handle {
	out := make([]patch.Handle, 0, len(s.Units))
	for _, r := range s.Units {
		if !r.Relative {
			out = append(out, r.Handle())
		}
	}
	return out
}

// Lead returns the position of the first non-relative record. Paste
// operations place the snapshot relative to it.
func (s Snapshot) Lead() (patch.Vec3, bool) {
	for _, r := range s.Units {
		if !r.Relative {
			return r.Position, true
		}
	}
	return patch.Vec3{}, false
}

func indexError(record int, socket string, j, k int) error {
	return errors.New(errors.ErrCodeSnapshotIndexOutOfRange, "record %d %s %d: source index %d out of range", record, socket, j, k)
}

// Capture flattens the units behind handles. Stale and repeated handles
// are dropped; the rest keep their order. With includeRelatives, every
// unit connected to the captured set but not part of it is appended as a
// relative record.
func Capture(reg *patch.Registry, handles []patch.Handle, includeRelatives bool) Snapshot {
	index := make(map[patch.Handle]int, len(handles))
	units := make([]*patch.Unit, 0, len(handles))
	add := func(h patch.Handle) {
		if _, seen := index[h]; seen {
			return
		}
		if u, ok := reg.Resolve(h); ok {
			index[h] = len(units)
			units = append(units, u)
		}
	}
	for _, h := range handles {
		add(h)
	}
	selected := len(units)

	if includeRelatives {
		for _, u := range units[:selected] {
			for _, h := range neighbours(u) {
				add(h)
			}
		}
	}

	snap := Snapshot{Version: Version, Units: make([]Record, len(units))}
	for i, u := range units {
		rec := Record{Kind: u.Kind(), ID: u.ID()}
		if i >= selected {
			rec.Relative = true
		} else {
			rec.Key = u.Key()
			rec.Asset = u.Asset()
			rec.Position = u.Position()
			rec.Meta = u.Meta()
		}

		if n := u.NumInlets(); n > 0 {
			rec.Inlets = make([]int, n)
			for j := range n {
				rec.Inlets[j] = localIndex(index, u.Inlet(j).Source)
			}
		}
		if n := u.NumInputs(); n > 0 {
			rec.Inputs = make([]int, n)
			for j := range n {
				rec.Inputs[j] = localIndex(index, u.Input(j).Source)
			}
		}
		snap.Units[i] = rec
	}
	return snap
}

func localIndex(index map[patch.Handle]int, source func() (patch.Handle, bool)) int {
	h, ok := source()
	if !ok {
		return Unconnected
	}
	if k, ok := index[h]; ok {
		return k
	}
	return Unconnected
}

// neighbours returns every unit connected to u, in socket order.
func neighbours(u *patch.Unit) []patch.Handle {
	var out []patch.Handle
	for j := range u.NumInlets() {
		if h, ok := u.Inlet(j).Source(); ok {
			out = append(out, h)
		}
	}
	for j := range u.NumInputs() {
		if h, ok := u.Input(j).Source(); ok {
			out = append(out, h)
		}
	}
	if o := u.Outlet(); o != nil {
		for _, e := range o.Targets() {
			out = append(out, e.Unit)
		}
	}
	if o := u.Output(); o != nil {
		for _, e := range o.Targets() {
			out = append(out, e.Unit)
		}
	}
	return out
}

// Reconstruct materializes snap in reg. Non-relative records are spawned
// at their position plus offset, at their recorded ids when preserveIDs is
// set and at the lowest free ids otherwise. Relative records resolve to
// existing units. Connections are restored in a second pass, once every
// record exists; an edge between two relative records is left as found.
//
// Reconstruct never stops early. A record that cannot be spawned is
// skipped along with its connections, and a connection index outside the
// record list skips only that connection. Every such problem is reported
// in the returned error; the handles of all spawned units are returned
// regardless, in record order.
func Reconstruct(reg *patch.Registry, snap Snapshot, offset patch.Vec3, preserveIDs bool) ([]patch.Handle, error) {
	logger := reg.Runtime().Logger
	handles := make([]patch.Handle, len(snap.Units))
	live := make([]bool, len(snap.Units))
	spawned := make([]patch.Handle, 0, len(snap.Units))
	var errs []error

	for i, rec := range snap.Units {
		if rec.Relative {
			h := rec.Handle()
			if _, ok := reg.Resolve(h); ok {
				handles[i], live[i] = h, true
			} else {
				logger.Debug("relative unit missing", "unit", h)
			}
			continue
		}

		opts := []patch.SpawnOption{patch.WithMeta(rec.Meta)}
		if rec.Asset != "" {
			opts = append(opts, patch.WithAsset(rec.Asset))
		}
		if preserveIDs {
			opts = append(opts, patch.WithID(rec.ID))
		}
		h, err := reg.Spawn(rec.Kind, rec.Key, rec.Position.Add(offset), opts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d (%s %q): %w", i, rec.Kind, rec.Key, err))
			continue
		}
		handles[i], live[i] = h, true
		spawned = append(spawned, h)
	}

	link := func(i int, socket string, sources []int, connect func(from, to patch.Handle, j int) error) {
		for j, k := range sources {
			switch {
			case k == Unconnected:
				continue
			case k < 0 || k >= len(snap.Units):
				errs = append(errs, indexError(i, socket, j, k))
				continue
			case !live[k]:
				continue
			case snap.Units[i].Relative && snap.Units[k].Relative:
				// Both ends lie outside the captured set; that edge is
				// not this snapshot's to restore.
				continue
			}
			if err := connect(handles[k], handles[i], j); err != nil && !errors.Is(err, errors.ErrCodeAlreadyConnected) {
				errs = append(errs, fmt.Errorf("record %d %s %d: %w", i, socket, j, err))
			}
		}
	}
	for i, rec := range snap.Units {
		if !live[i] {
			continue
		}
		link(i, "inlet", rec.Inlets, reg.Connect)
		link(i, "input", rec.Inputs, reg.ConnectSignal)
	}

	if len(errs) > 0 {
		logger.Warn("snapshot restored with problems", "records", len(snap.Units), "problems", len(errs))
	}
	return spawned, errors.Join(errs...)
}
