package units

import (
	"time"

	"github.com/matzehuels/raytone/pkg/patch"
)

// Elapsed outputs the seconds since it was spawned or last reset by a
// trigger on its reset inlet.
type Elapsed struct {
	start     time.Time
	stepReady bool
}

func (e *Elapsed) Attach(u *patch.Unit) { e.start = u.Runtime().Now() }

func (e *Elapsed) Step(*patch.Unit) { e.stepReady = true }

func (e *Elapsed) Output(u *patch.Unit) float64 {
	now := u.Runtime().Now()
	if e.stepReady {
		e.stepReady = false
		if t, ok := pulledTrigger(u, 0); ok && t == 1 {
			e.start = now
		}
	}
	return now.Sub(e.start).Seconds()
}

func (e *Elapsed) Reset(u *patch.Unit) { e.start = u.Runtime().Now() }

// DefaultAverageWindow is the smoothing window of Average when its time
// inlet is unconnected.
const DefaultAverageWindow = 500.0

// Average smooths its input with an exponential moving average whose
// window, in milliseconds, comes from the time inlet.
type Average struct {
	out  float64
	last time.Time
}

func (a *Average) Output(u *patch.Unit) float64 {
	now := u.Runtime().Now()
	if !u.InletConnected(0) {
		a.out = 0
		a.last = now
		return 0
	}
	in := u.InletValue(0, 0)
	window := DefaultAverageWindow
	if u.InletConnected(1) {
		window = max(u.InletValue(1, window), 1)
	}
	if a.last.IsZero() {
		a.last = now
	}
	dt := now.Sub(a.last).Seconds()
	a.last = now
	if dt <= 0 {
		return a.out
	}
	weight := 2 / ((window / (dt * 1000)) + 1)
	a.out = a.out*(1-weight) + in*weight
	return a.out
}

func (a *Average) Reset(*patch.Unit) { a.out = 0 }
