package units

import (
	"github.com/matzehuels/raytone/pkg/patch"
)

// Window shows the texture connected to its inlet. A patch has at most one.
type Window struct {
	texture int
}

// Texture returns the id currently shown, 0 for none.
func (w *Window) Texture() int { return w.texture }

func (w *Window) Output(u *patch.Unit) float64 {
	w.texture = int(u.InletValue(0, 0))
	return float64(w.texture)
}

// Image displays its asset file as a texture. Width, height and opacity
// default to 1 when their inlets are unconnected.
type Image struct {
	texture int
	width   float64
	height  float64
	opacity float64
}

func (im *Image) Attach(u *patch.Unit) {
	im.texture = u.Runtime().Textures.Allocate(u.Handle())
	im.width, im.height, im.opacity = 1, 1, 1
}

func (im *Image) Detach(u *patch.Unit) {
	u.Runtime().Textures.Release(im.texture)
	im.texture = 0
}

// Size returns the last width, height and opacity read from the inlets.
func (im *Image) Size() (width, height, opacity float64) {
	return im.width, im.height, im.opacity
}

func (im *Image) Output(u *patch.Unit) float64 {
	dirty := false
	for i, p := range []*float64{&im.width, &im.height, &im.opacity} {
		v := u.InletValue(i, 1)
		if v != *p {
			*p = v
			dirty = true
		}
		if u.InletTrigger(i) == 1 {
			dirty = true
		}
	}
	if dirty {
		u.NotifyQueueRenderFrame()
	}
	return float64(im.texture)
}
