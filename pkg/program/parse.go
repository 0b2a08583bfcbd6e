// Package program reads voice programs: the synthesis sources a voice
// unit runs in the audio backend.
//
// A program declares its sockets with header macros:
//
//	RAYTONE_DEFINE_INPUTS("in", "am");
//	RAYTONE_DEFINE_INLETS("freq", "gain");
//	RAYTONE_DEFINE_OUTLET(true);
//	RAYTONE_LOADFILE(true);
//	RAYTONE_RELOAD(true);
//
// [Parse] turns the header into a [patch.VoiceProgram]; [Library] resolves
// programs stored on disk as <dir>/<category>/<name>.ck; [Watcher] reloads
// them when they change; [Expand] rewrites socket macros into reads of the
// shared arrays for one running voice.
package program

import (
	"strings"

	"github.com/matzehuels/raytone/pkg/patch"
)

// Extension is the program source file extension.
const Extension = ".ck"

// Header macro names.
const (
	MacroInputs   = "RAYTONE_DEFINE_INPUTS"
	MacroInlets   = "RAYTONE_DEFINE_INLETS"
	MacroOutlet   = "RAYTONE_DEFINE_OUTLET"
	MacroLoadFile = "RAYTONE_LOADFILE"
	MacroReload   = "RAYTONE_RELOAD"
)

var headerMacros = []string{MacroInputs, MacroInlets, MacroOutlet, MacroLoadFile, MacroReload}

// FindStringArg returns the text between the first occurrence of left and
// the next occurrence of right after it. It returns "" when either is
// missing.
func FindStringArg(text, left, right string) string {
	_, after, ok := strings.Cut(text, left)
	if !ok {
		return ""
	}
	arg, _, ok := strings.Cut(after, right)
	if !ok {
		return ""
	}
	return arg
}

// Parse reads the header macros of src. Missing macros leave the
// corresponding field empty; inlets beyond [patch.MaxInlets] are dropped.
func Parse(name, src string) patch.VoiceProgram {
	prog := patch.VoiceProgram{
		Name:     name,
		Inputs:   parseList(macroArg(src, MacroInputs)),
		Inlets:   parseList(macroArg(src, MacroInlets)),
		Outlet:   macroFlag(src, MacroOutlet),
		LoadFile: macroFlag(src, MacroLoadFile),
		Reload:   macroFlag(src, MacroReload),
	}
	if len(prog.Inlets) > patch.MaxInlets {
		prog.Inlets = prog.Inlets[:patch.MaxInlets]
	}
	return prog
}

func macroArg(src, macro string) string {
	return FindStringArg(src, macro+"(", ");")
}

func macroFlag(src, macro string) bool {
	return strings.TrimSpace(macroArg(src, macro)) == "true"
}

// parseList splits `"a", "b"` into its quoted names.
func parseList(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = FindStringArg(p, `"`, `"`)
	}
	return out
}
