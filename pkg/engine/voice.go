package engine

import (
	"github.com/matzehuels/raytone/pkg/errors"
	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/program"
)

// sourceResolver is implemented by program resolvers that also hold the
// program text, such as [program.Library].
type sourceResolver interface {
	Source(name string) (string, error)
}

// ReloadProgram applies a changed program header to every live voice
// running it. Sockets the program no longer declares are disconnected. It
// returns the number of voices updated.
func (e *Engine) ReloadProgram(prog patch.VoiceProgram) int {
	n := 0
	for _, u := range e.reg.Units(patch.Voice) {
		if u.Key() != prog.Name {
			continue
		}
		if err := e.reg.Reprogram(u.Handle(), prog); err != nil {
			e.logger.Warn("reload failed", "unit", u.Handle(), "program", prog.Name, "err", err)
			continue
		}
		n++
	}
	if n > 0 {
		e.logger.Info("program reloaded", "program", prog.Name, "voices", n)
	}
	return n
}

// VoiceSource returns the program text a voice hands to the synthesis
// backend, with its socket macros expanded for that voice.
func (e *Engine) VoiceSource(h patch.Handle) (string, error) {
	u, ok := e.reg.Resolve(h)
	if !ok || h.Kind != patch.Voice {
		return "", errors.New(errors.ErrCodeStaleHandle, "%s is not a live voice", h)
	}
	res, ok := e.rt.Programs.(sourceResolver)
	if !ok {
		return "", errors.New(errors.ErrCodeUnsupported, "program sources are not available")
	}
	src, err := res.Source(u.Key())
	if err != nil {
		return "", err
	}
	v := program.Voice{ID: h.ID, Inlets: u.NumInlets(), Asset: u.Asset()}
	for i := range u.NumInputs() {
		v.Inputs = append(v.Inputs, u.Input(i).VoiceID())
	}
	return program.Expand(src, v), nil
}
