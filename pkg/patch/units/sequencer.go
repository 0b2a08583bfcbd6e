package units

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/matzehuels/raytone/pkg/patch"
)

// MaxSteps is the number of steps a sequencer stores.
const MaxSteps = 16

// Sequencer steps through up to 16 stored values, one per clockDiv ticks.
// Step values are integers in 0..ValueRange(); 0 is a rest, and v>0 maps
// to (v-1)*delta + min.
type Sequencer struct {
	min, max, delta float64
	stepMax         int
	clockDiv        int
	vals            [MaxSteps]float64

	valRange   int
	step       int
	clockIndex int
	out        float64
	trigger    int
}

// NewSequencer returns a sequencer with the default range 1..10.
func NewSequencer() *Sequencer {
	s := &Sequencer{min: 1, max: 10, delta: 1, stepMax: MaxSteps, clockDiv: 1}
	s.calcRange()
	return s
}

func (s *Sequencer) calcRange() {
	if s.delta != 0 {
		s.valRange = int(math.Floor((s.max-s.min)/s.delta)) + 1
	} else {
		s.valRange = 1
	}
	for i := range s.vals {
		s.vals[i] = s.clampVal(s.vals[i])
	}
}

func (s *Sequencer) clampVal(v float64) float64 {
	return math.Min(math.Max(v, 0), float64(s.valRange))
}

// ValueRange returns the largest step value.
func (s *Sequencer) ValueRange() int { return s.valRange }

// SetRange sets the output range and resolution. delta is raised to 0.001
// at least; stored step values are re-clamped.
func (s *Sequencer) SetRange(lo, hi, delta float64) {
	if delta < 0.001 {
		delta = 0.001
	}
	s.min, s.max, s.delta = lo, hi, delta
	s.calcRange()
}

// SetStepMax sets the active number of steps, clamped to 1..16.
func (s *Sequencer) SetStepMax(n int) { s.stepMax = min(max(n, 1), MaxSteps) }

// SetClockDiv sets how many ticks each step lasts.
func (s *Sequencer) SetClockDiv(n int) { s.clockDiv = max(n, 1) }

// SetStep stores v, clamped to 0..ValueRange(), at step i.
func (s *Sequencer) SetStep(i int, v float64) {
	if i < 0 || i >= MaxSteps {
		return
	}
	s.vals[i] = s.clampVal(v)
}

// Steps returns the stored step values.
func (s *Sequencer) Steps() [MaxSteps]float64 { return s.vals }

// Randomize fills the active steps with random values.
func (s *Sequencer) Randomize(r *rand.Rand) {
	for i := range s.stepMax {
		s.vals[i] = float64(r.IntN(s.valRange + 1))
	}
}

// Value converts a step value to an output.
func (s *Sequencer) Value(v float64) float64 {
	if v == 0 {
		return 0
	}
	return (v-1)*s.delta + s.min
}

func (s *Sequencer) Step(*patch.Unit) {
	// stepMax or clockDiv may have shrunk since the last tick.
	s.step %= s.stepMax
	s.clockIndex %= s.clockDiv

	if s.clockIndex == 0 {
		s.out = s.Value(s.vals[s.step])
		s.trigger = 0
		if s.out != 0 {
			s.trigger = 1
		}
		s.step = (s.step + 1) % s.stepMax
	} else {
		s.trigger = 0
	}
	s.clockIndex = (s.clockIndex + 1) % s.clockDiv
}

func (s *Sequencer) Output(*patch.Unit) float64 { return s.out }
func (s *Sequencer) Trigger(*patch.Unit) int    { return s.trigger }

func (s *Sequencer) Reset(*patch.Unit) {
	s.step = 0
	s.clockIndex = 0
}

// Current returns the index of the step that will play next.
func (s *Sequencer) Current() int { return s.step }

func (s *Sequencer) Properties() patch.Meta {
	m := patch.Meta{}
	m.SetFloat("val_min", s.min)
	m.SetFloat("val_max", s.max)
	m.SetFloat("val_delta", s.delta)
	for i, v := range s.vals {
		m.SetFloat(strconv.Itoa(i), v)
	}
	m.SetInt("step_max", s.stepMax)
	m.SetInt("clock_div", s.clockDiv)
	return m
}

func (s *Sequencer) Apply(m patch.Meta) {
	s.SetRange(m.Float("val_min", s.min), m.Float("val_max", s.max), m.Float("val_delta", s.delta))
	s.SetStepMax(m.Int("step_max", s.stepMax))
	s.SetClockDiv(m.Int("clock_div", s.clockDiv))
	for i := range s.vals {
		s.SetStep(i, m.Float(strconv.Itoa(i), s.vals[i]))
	}
}
