package graphics

import (
	"acupoint-viewer/internal/lasso"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	orbitSpeed = 0.008 // radians per pixel
	zoomStep   = 0.9
)

// Handler receives pointer events translated from raylib input.
type Handler interface {
	OnPress(p lasso.Point)
	OnMove(p lasso.Point, pressed bool)
	OnRelease()
	Orbit(yaw, pitch float32)
	Zoom(factor float32)
	Resize(w, h int)
}

// Input polls raylib once per frame: left button draws the lasso, right drag orbits and
// the wheel zooms.
type Input struct {
	last   lasso.Point
	width  int
	height int
}

// Poll forwards this frame's input to h.
func (in *Input) Poll(h Handler) {
	if w, ht := rl.GetScreenWidth(), rl.GetScreenHeight(); w != in.width || ht != in.height {
		in.width, in.height = w, ht
		h.Resize(w, ht)
	}

	m := rl.GetMousePosition()
	p := lasso.Point{X: m.X, Y: m.Y}
	left := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		h.OnPress(p)
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		h.OnMove(p, true)
		h.OnRelease()
	case p != in.last:
		h.OnMove(p, left)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			h.Orbit(d.X*orbitSpeed, d.Y*orbitSpeed)
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		f := float32(zoomStep)
		if wheel < 0 {
			f = 1 / zoomStep
		}
		h.Zoom(f)
	}
	in.last = p
}
