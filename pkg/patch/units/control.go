package units

import (
	"strconv"
	"strings"
	"sync"

	"github.com/matzehuels/raytone/pkg/patch"
)

// Number outputs a constant typed in by the user.
type Number struct {
	text string
}

// SetText replaces the number's text. Text that does not parse as a number
// outputs 0.
func (n *Number) SetText(s string) { n.text = s }

func (n *Number) Output(*patch.Unit) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(n.text), 64)
	if err != nil {
		return 0
	}
	return f
}

func (n *Number) Properties() patch.Meta { return patch.Meta{"number": n.text} }
func (n *Number) Apply(m patch.Meta)     { n.text = m.String("number", n.text) }

// Counter counts triggers on its increment inlet and returns to zero on a
// trigger at its reset inlet. Inlets are examined once per tick.
type Counter struct {
	count     float64
	stepReady bool
}

func (c *Counter) Step(*patch.Unit) { c.stepReady = true }

func (c *Counter) Output(u *patch.Unit) float64 {
	if !c.stepReady {
		return c.count
	}
	c.stepReady = false
	if t, ok := pulledTrigger(u, 0); ok && t == 1 {
		c.count++
	}
	if t, ok := pulledTrigger(u, 1); ok && t == 1 {
		c.count = 0
	}
	return c.count
}

func (c *Counter) Reset(*patch.Unit) { c.count = 0 }

// Trigger fires for exactly one tick after [Trigger.Press].
type Trigger struct {
	mu      sync.Mutex
	ready   bool
	trigger int
}

// Press queues a trigger for the next tick. It may be called from any
// goroutine.
func (t *Trigger) Press() {
	t.mu.Lock()
	t.ready = true
	t.mu.Unlock()
}

func (t *Trigger) Step(*patch.Unit) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trigger = 0
	if t.ready {
		t.trigger = 1
	}
	t.ready = false
}

func (t *Trigger) Output(*patch.Unit) float64 { return float64(t.trigger) }
func (t *Trigger) Trigger(*patch.Unit) int    { return t.trigger }

// Toggle holds a 0/1 state. It never fires a trigger.
type Toggle struct {
	on bool
}

// Set changes the state.
func (t *Toggle) Set(on bool) { t.on = on }

// Press flips the state.
func (t *Toggle) Press() { t.on = !t.on }

func (t *Toggle) Output(*patch.Unit) float64 {
	if t.on {
		return 1
	}
	return 0
}

func (t *Toggle) Trigger(*patch.Unit) int { return 0 }

func (t *Toggle) Properties() patch.Meta {
	m := patch.Meta{}
	if t.on {
		m.SetInt("toggle", 1)
	} else {
		m.SetInt("toggle", 0)
	}
	return m
}

func (t *Toggle) Apply(m patch.Meta) { t.on = m.Int("toggle", 0) == 1 }

// Monitor passes its input through and forwards render requests.
type Monitor struct{}

func (Monitor) Output(u *patch.Unit) float64 { return u.InletValue(0, 0) }

func (Monitor) QueueRender(u *patch.Unit, _ int) { u.NotifyQueueRenderFrame() }
