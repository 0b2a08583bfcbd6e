// Package history implements linear undo and redo over a patch registry.
//
// Every structural edit is described by a [Command] that stores just
// enough state to invert itself. The [History] keeps commands in the
// order they were applied together with a cursor; undoing walks the cursor
// back, redoing walks it forward, and recording a new command discards
// the redo branch.
//
// Commands address units by handle. A handle that no longer resolves
// makes the affected step a no-op rather than an error, so a history
// stays usable after units vanish by other means.
package history

import (
	"github.com/matzehuels/raytone/pkg/patch"
)

// Command is one reversible edit.
type Command interface {
	// Undo reverts the edit.
	Undo(reg *patch.Registry)

	// Redo applies the edit again.
	Redo(reg *patch.Registry)

	// String names the command for logs and metrics.
	String() string
}

// History is a linear command history bound to one registry.
// It is not safe for concurrent use.
type History struct {
	reg      *patch.Registry
	commands []Command
	cursor   int
}

// New returns an empty history for reg.
func New(reg *patch.Registry) *History {
	return &History{reg: reg, cursor: -1}
}

// Record appends a command whose effect has already been applied. Any
// undone commands after the cursor are discarded.
func (h *History) Record(cmd Command) {
	if cmd == nil {
		return
	}
	h.commands = append(h.commands[:h.cursor+1], cmd)
	h.cursor = len(h.commands) - 1
	h.notify(cmd, "record")
}

// Execute applies cmd and records it.
func (h *History) Execute(cmd Command) {
	if cmd == nil {
		return
	}
	cmd.Redo(h.reg)
	h.Record(cmd)
}

// Undo reverts the command at the cursor. It reports false when there is
// nothing to undo.
func (h *History) Undo() bool {
	if h.cursor < 0 {
		return false
	}
	cmd := h.commands[h.cursor]
	cmd.Undo(h.reg)
	h.cursor--
	h.notify(cmd, "undo")
	return true
}

// Redo re-applies the command after the cursor. It reports false when
// there is nothing to redo.
func (h *History) Redo() bool {
	if h.cursor >= len(h.commands)-1 {
		return false
	}
	h.cursor++
	cmd := h.commands[h.cursor]
	cmd.Redo(h.reg)
	h.notify(cmd, "redo")
	return true
}

// CanUndo reports whether [History.Undo] would do anything.
func (h *History) CanUndo() bool { return h.cursor >= 0 }

// CanRedo reports whether [History.Redo] would do anything.
func (h *History) CanRedo() bool { return h.cursor < len(h.commands)-1 }

// Len returns the number of recorded commands, undone ones included.
func (h *History) Len() int { return len(h.commands) }

// Cursor returns the index of the last applied command, or -1.
func (h *History) Cursor() int { return h.cursor }

// Clear forgets every command.
func (h *History) Clear() {
	h.commands = nil
	h.cursor = -1
}

func (h *History) notify(cmd Command, op string) {
	rt := h.reg.Runtime()
	rt.Hooks.History.OnCommand(cmd.String(), op)
	rt.Logger.Debug("history", "op", op, "command", cmd.String(), "cursor", h.cursor, "len", len(h.commands))
}
