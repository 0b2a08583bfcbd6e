// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers pass a [Hooks] value to the
// engine at construction time to receive events about ticks, graph edits,
// history operations and snapshot store traffic.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Bundle them in a [Hooks] value owned by the runtime
//
// There is no process-wide registry. Every engine carries its own Hooks, so
// two engines in one process (or two tests) never observe each other.
//
// # Usage
//
//	m := metrics.New(prometheus.NewRegistry())
//	eng := engine.New(engine.Options{Hooks: m.Hooks()})
//
// Libraries call hooks to emit events:
//
//	h.Engine.OnSpawn(kind, key, err)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the unit registry and the tick loop.
type EngineHooks interface {
	// OnTick records one control-rate step over the given number of units.
	OnTick(units int, duration time.Duration)

	// OnSpawn records a spawn attempt. err is nil on success.
	OnSpawn(kind, key string, err error)

	// OnDestroy records the removal of a unit.
	OnDestroy(kind string)

	// OnConnect records a connection attempt. signal distinguishes
	// Output->Input edges from Outlet->Inlet edges.
	OnConnect(signal bool, err error)

	// OnCycle records a re-entrant evaluation that was cut short.
	OnCycle(kind string)
}

// =============================================================================
// History Hooks
// =============================================================================

// HistoryHooks receives events from the undo/redo history.
type HistoryHooks interface {
	// OnCommand records a command being recorded, undone or redone.
	// op is one of "record", "undo" or "redo".
	OnCommand(command, op string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from snapshot store operations.
type StoreHooks interface {
	// OnStoreHit records a successful lookup.
	OnStoreHit(ctx context.Context, backend string)

	// OnStoreMiss records a lookup for an unknown id.
	OnStoreMiss(ctx context.Context, backend string)

	// OnStorePut records a write.
	OnStorePut(ctx context.Context, backend string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnTick(int, time.Duration)     {}
func (NoopEngineHooks) OnSpawn(string, string, error) {}
func (NoopEngineHooks) OnDestroy(string)              {}
func (NoopEngineHooks) OnConnect(bool, error)         {}
func (NoopEngineHooks) OnCycle(string)                {}

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnCommand(string, string) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreHit(context.Context, string)      {}
func (NoopStoreHooks) OnStoreMiss(context.Context, string)     {}
func (NoopStoreHooks) OnStorePut(context.Context, string, int) {}

// =============================================================================
// Hook Bundle
// =============================================================================

// Hooks bundles every hook category. The zero value is usable: nil members
// are replaced by no-op implementations in [Hooks.WithDefaults].
type Hooks struct {
	Engine  EngineHooks
	History HistoryHooks
	Store   StoreHooks
}

// WithDefaults returns a copy of h with nil members replaced by no-ops.
func (h Hooks) WithDefaults() Hooks {
	if h.Engine == nil {
		h.Engine = NoopEngineHooks{}
	}
	if h.History == nil {
		h.History = NoopHistoryHooks{}
	}
	if h.Store == nil {
		h.Store = NoopStoreHooks{}
	}
	return h
}
