package units

import "github.com/matzehuels/raytone/pkg/patch"

// Default render target of an effect. Filter 0 is point sampling, 1 is
// bilinear.
const (
	defaultResolutionX = 1920
	defaultResolutionY = 1080
	defaultFilter      = 1

	// delayFrames is the depth of the Delay frame ring.
	delayFrames = 60
)

type param struct {
	name string
	def  float64
}

// effect describes one texture effect. Its inlets are the texture inlets
// followed by the scalar parameters.
type effect struct {
	key      string
	textures []string
	params   []param

	// resolution overrides the default render target size.
	resolution [2]int
}

// generator reports whether the effect draws without an input texture.
func (e *effect) generator() bool { return len(e.textures) == 0 }

func (e *effect) inlets() []string {
	names := append([]string(nil), e.textures...)
	for _, p := range e.params {
		names = append(names, p.name)
	}
	return names
}

var effects = []effect{
	{key: KeyBrightness, textures: []string{"texture"}, params: []param{{"brightness", 1}}},
	{key: KeyConstant, params: []param{{"r", 0}, {"g", 0}, {"b", 0}}, resolution: [2]int{1, 1}},
	{key: KeyMultiply, textures: []string{"texture", "texture2"}},
	{key: KeyDelay, textures: []string{"texture"}, params: []param{{"frames", 0}}},
	{key: KeyRect, params: []param{
		{"center_x", 0.5}, {"center_y", 0.5}, {"width", 0.5}, {"height", 0.5}, {"blur", 0}, {"blur_size", 0},
	}},
	{key: KeyFBM, params: []param{
		{"offset_x", 0}, {"offset_y", 0}, {"scale_x", 1}, {"scale_y", 1}, {"octaves", 1},
	}},
	{key: KeyPixelate, textures: []string{"texture"}, params: []param{{"size_x", 1}, {"size_y", 1}}},
	{key: KeyTransform, textures: []string{"texture"}, params: []param{
		{"scale_x", 1}, {"scale_y", 1}, {"rotate", 0},
		{"translate_x", 0}, {"translate_y", 0}, {"pivot_x", 0.5}, {"pivot_y", 0.5},
	}},
}

func effectSpecs() []patch.Spec {
	specs := make([]patch.Spec, 0, len(effects))
	for i := range effects {
		fx := &effects[i]
		newFn := func() patch.Behavior { return newEffect(fx) }
		if fx.key == KeyDelay {
			newFn = func() patch.Behavior { return &Delay{Effect: *newEffect(fx)} }
		}
		specs = append(specs, patch.Spec{
			Key:      fx.key,
			Kind:     patch.Graphics,
			Category: "Effect",
			Inlets:   fx.inlets(),
			Outlet:   true,
			New:      newFn,
		})
	}
	return specs
}

// Effect renders its input textures, or nothing for generators, into a
// texture of its own. The pixels belong to the renderer; Effect tracks the
// texture ids and parameters the renderer needs and when a frame is due.
//
// An effect with texture inlets renders once every connected texture
// inlet has queued a frame. A generator queues a frame whenever one of
// its parameters changes.
type Effect struct {
	fx      *effect
	texture int
	sources []int
	params  []float64
	queued  []bool
	pending bool
	primed  bool

	resolution [2]int
	filter     int
}

func newEffect(fx *effect) *Effect {
	e := &Effect{
		fx:         fx,
		sources:    make([]int, len(fx.textures)),
		params:     make([]float64, len(fx.params)),
		queued:     make([]bool, len(fx.textures)),
		resolution: [2]int{defaultResolutionX, defaultResolutionY},
		filter:     defaultFilter,
	}
	if fx.resolution != [2]int{} {
		e.resolution = fx.resolution
	}
	for i, p := range fx.params {
		e.params[i] = p.def
	}
	return e
}

func (e *Effect) Attach(u *patch.Unit) {
	e.texture = u.Runtime().Textures.Allocate(u.Handle())
}

func (e *Effect) Detach(u *patch.Unit) {
	u.Runtime().Textures.Release(e.texture)
	e.texture = 0
}

func (e *Effect) Output(u *patch.Unit) float64 {
	for i := range e.sources {
		e.sources[i] = int(u.InletValue(i, 0))
	}
	changed := !e.primed
	for i, p := range e.fx.params {
		v := u.InletValue(len(e.sources)+i, p.def)
		if v != e.params[i] {
			e.params[i] = v
			changed = true
		}
	}
	e.primed = true
	if changed && e.fx.generator() {
		e.pending = true
		u.NotifyQueueRenderFrame()
	}
	return float64(e.texture)
}

func (e *Effect) QueueRender(u *patch.Unit, inlet int) {
	if e.ready(u, inlet) {
		e.render(u)
	}
}

// ready marks inlet as queued and reports whether every connected texture
// inlet has now queued since the last render.
func (e *Effect) ready(u *patch.Unit, inlet int) bool {
	if inlet < 0 || inlet >= len(e.queued) || !u.InletConnected(0) {
		return false
	}
	e.queued[inlet] = true
	for i, q := range e.queued {
		if !q && u.InletConnected(i) {
			return false
		}
	}
	clear(e.queued)
	return true
}

func (e *Effect) render(u *patch.Unit) {
	e.pending = true
	u.NotifyQueueRenderFrame()
}

// TakePending reports whether a frame was rendered since the last call
// and clears the flag. The renderer polls it once per frame.
func (e *Effect) TakePending() bool {
	p := e.pending
	e.pending = false
	return p
}

// Source returns the texture id last read from texture inlet i.
func (e *Effect) Source(i int) int { return e.sources[i] }

// Param returns the value last read for parameter i, counted from the
// first inlet after the texture inlets.
func (e *Effect) Param(i int) float64 { return e.params[i] }

// Resolution returns the render target size.
func (e *Effect) Resolution() (x, y int) { return e.resolution[0], e.resolution[1] }

func (e *Effect) Properties() patch.Meta {
	m := patch.Meta{}
	m.SetInt("resolution_x", e.resolution[0])
	m.SetInt("resolution_y", e.resolution[1])
	m.SetInt("filter", e.filter)
	return m
}

func (e *Effect) Apply(m patch.Meta) {
	e.resolution[0] = max(1, m.Int("resolution_x", e.resolution[0]))
	e.resolution[1] = max(1, m.Int("resolution_y", e.resolution[1]))
	e.filter = min(max(m.Int("filter", e.filter), 0), 1)
}

// Delay shows its input texture as it was up to 59 frames ago.
type Delay struct {
	Effect
	frames  [delayFrames]int
	next    int
	delayed int
}

func (d *Delay) QueueRender(u *patch.Unit, inlet int) {
	if !d.ready(u, inlet) {
		return
	}
	d.frames[d.next] = d.sources[0]
	lag := min(max(int(d.params[0]), 0), delayFrames-1)
	d.delayed = d.frames[(d.next-lag+delayFrames)%delayFrames]
	d.next = (d.next + 1) % delayFrames
	d.render(u)
}

// Delayed returns the source texture id of the frame currently shown.
func (d *Delay) Delayed() int { return d.delayed }
