package program

import (
	"strconv"
	"strings"

	"github.com/matzehuels/raytone/pkg/patch"
)

// Voice is the per-instance context a program is expanded for.
type Voice struct {
	// ID is the voice's slot id.
	ID int

	// Inputs holds, per input, the slot id of the connected voice or -1.
	Inputs []int

	// Inlets is the number of inlets the voice exposes.
	Inlets int

	// Asset is the file the voice plays, if any.
	Asset string
}

// Expand rewrites the socket macros in src for v:
//
//	RAYTONE_INLET(i)                           value of inlet i
//	RAYTONE_TRIGGER(i), RAYTONE_TRIG(i)        trigger of inlet i
//	RAYTONE_CONNECTED(i), RAYTONE_INLET_STATUS(i) connection flag of inlet i
//	RAYTONE_INPUT(i)                           gain bus of the connected voice
//	RAYTONE_OUTPUT                             this voice's gain bus
//	RAYTONE_OUTLET                             this voice's outlet slot
//
// Header macros are commented out and the me.arg(0..2) placeholders are
// replaced by the voice id, its first shared index and its asset path.
func Expand(src string, v Voice) string {
	id := strconv.Itoa(v.ID)
	out := strings.ReplaceAll(src, "RAYTONE_OUTLET", "outletArr_chuck[raytone_id]")
	out = strings.ReplaceAll(out, "RAYTONE_OUTPUT",
		"Gain raytone_gain_local_out1 => global Gain raytone_gain"+id+" => Gain raytone_gain_local_out2")

	for i, from := range v.Inputs {
		macro := "RAYTONE_INPUT(" + strconv.Itoa(i) + ")"
		if from < 0 {
			// The null bus is declared once; later uses refer to it.
			if !strings.Contains(out, "raytone_gain_null") {
				out = strings.Replace(out, macro, "Gain raytone_gain_null", 1)
			}
			out = strings.ReplaceAll(out, macro, "raytone_gain_null")
			continue
		}
		out = strings.ReplaceAll(out, macro,
			"global Gain raytone_gain"+strconv.Itoa(from)+" => Gain raytone_gain_local_in_"+strconv.Itoa(i))
	}

	for i := range v.Inlets {
		n := strconv.Itoa(i)
		slot := "[raytone_index + " + n + "]"
		out = strings.ReplaceAll(out, "RAYTONE_INLET_STATUS("+n+")", "statusArr_chuck"+slot)
		out = strings.ReplaceAll(out, "RAYTONE_CONNECTED("+n+")", "statusArr_chuck"+slot)
		out = strings.ReplaceAll(out, "RAYTONE_TRIGGER("+n+")", "trigArr_chuck"+slot)
		out = strings.ReplaceAll(out, "RAYTONE_TRIG("+n+")", "trigArr_chuck"+slot)
		out = strings.ReplaceAll(out, "RAYTONE_INLET("+n+")", "valArr_chuck"+slot)
	}

	for _, macro := range headerMacros {
		if i := strings.Index(out, macro); i >= 0 {
			out = out[:i] + "//" + out[i:]
		}
	}

	out = strings.ReplaceAll(out, "me.arg(0)", strconv.Quote(id))
	out = strings.ReplaceAll(out, "me.arg(1)", strconv.Quote(strconv.Itoa(patch.SharedIndex(v.ID, 0))))
	out = strings.ReplaceAll(out, "me.arg(2)", strconv.Quote(v.Asset))
	return out
}
