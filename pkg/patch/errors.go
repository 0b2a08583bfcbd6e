package patch

import (
	"github.com/matzehuels/raytone/pkg/errors"
)

// Sentinel errors returned by the registry and the connection model.
// Errors produced at runtime carry more detail but match these under
// the standard library's errors.Is.
var (
	// ErrSlotExhausted is returned by [Registry.Spawn] when every slot of
	// the requested kind is occupied.
	ErrSlotExhausted = errors.New(errors.ErrCodeSlotExhausted, "no free slot")

	// ErrSlotInUse is returned by [Registry.Spawn] when an explicit id is
	// already occupied.
	ErrSlotInUse = errors.New(errors.ErrCodeSlotInUse, "slot in use")

	// ErrInvalidSlot is returned when an explicit id lies outside the pool.
	ErrInvalidSlot = errors.New(errors.ErrCodeInvalidSlot, "slot id out of range")

	// ErrDuplicateSingleton is returned when a single-instance factory
	// already has a live unit. No slot is allocated.
	ErrDuplicateSingleton = errors.New(errors.ErrCodeDuplicateSingleton, "only one instance allowed")

	// ErrUnknownFactoryKey is returned when no factory or voice program is
	// registered under the requested key.
	ErrUnknownFactoryKey = errors.New(errors.ErrCodeUnknownFactoryKey, "unknown factory key")

	// ErrStaleHandle is returned when a handle no longer resolves.
	ErrStaleHandle = errors.New(errors.ErrCodeStaleHandle, "stale handle")

	// ErrSelfLoop is returned when a voice output is connected to one of
	// its own inputs.
	ErrSelfLoop = errors.New(errors.ErrCodeSelfLoop, "voice cannot feed itself")

	// ErrAlreadyConnected is returned when the exact connection exists.
	ErrAlreadyConnected = errors.New(errors.ErrCodeAlreadyConnected, "already connected")

	// ErrNoSuchSocket is returned when a unit lacks the addressed socket.
	ErrNoSuchSocket = errors.New(errors.ErrCodeNoSuchSocket, "no such socket")

	// ErrCycleDetected is returned when evaluation re-entered a unit that
	// was already being evaluated.
	ErrCycleDetected = errors.New(errors.ErrCodeCycleDetected, "cycle detected")
)
