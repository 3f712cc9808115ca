// Package lasso accumulates pointer samples of a selection gesture into a
// simplified polyline in normalized device coordinates.
package lasso

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultJitterPx is how far, in pixels on either axis, the pointer must travel before a sample counts.
	DefaultJitterPx = 3
	// DefaultCollinearDot is the direction agreement above which a sample replaces the last point.
	DefaultCollinearDot = 0.99
	// MinPoints is the smallest polyline that triggers a selection.
	MinPoints = 2
)

// Point is a pointer position in window pixels, origin top-left.
type Point struct {
	X, Y float32
}

// Viewport converts window pixels to normalized device coordinates.
type Viewport struct {
	Width, Height int
}

// NDC maps p to [-1,1]² with +Y up.
func (v Viewport) NDC(p Point) mgl32.Vec2 {
	return mgl32.Vec2{
		p.X/float32(v.Width)*2 - 1,
		-(p.Y/float32(v.Height)*2 - 1),
	}
}

// Polyline is an ordered list of NDC points; the closing edge back to the first point is implicit.
type Polyline []mgl32.Vec2

// Tracker records one gesture at a time. It is not safe for concurrent use.
type Tracker struct {
	JitterPx     float32
	CollinearDot float32

	viewport Viewport
	points   Polyline
	start    mgl32.Vec2
	prev     Point
	active   bool
	visible  bool
	dirty    bool
}

// New returns a tracker with the default thresholds for a viewport of the given size.
func New(vp Viewport) *Tracker {
	return &Tracker{JitterPx: DefaultJitterPx, CollinearDot: DefaultCollinearDot, viewport: vp}
}

// SetViewport changes the pixel size used for NDC conversion.
func (t *Tracker) SetViewport(vp Viewport) { t.viewport = vp }

// Begin starts a gesture at p: the polyline is emptied and p becomes the jitter reference.
// p itself is not committed.
func (t *Tracker) Begin(p Point) {
	t.points = t.points[:0]
	t.prev = p
	t.start = t.viewport.NDC(p)
	t.active = true
	t.dirty = true
}

// Start returns the NDC position where the current gesture began.
func (t *Tracker) Start() mgl32.Vec2 { return t.start }

// Extend feeds a pointer sample. It reports whether the polyline changed.
func (t *Tracker) Extend(p Point) bool {
	if !t.active {
		return false
	}
	if math32.Abs(p.X-t.prev.X) < t.JitterPx && math32.Abs(p.Y-t.prev.Y) < t.JitterPx {
		return false
	}
	n := t.viewport.NDC(p)
	if last := len(t.points) - 1; last >= 1 && t.collinear(t.points[last-1], t.points[last], n) {
		t.points[last] = n
	} else {
		t.points = append(t.points, n)
	}
	t.prev = p
	t.visible = true
	t.dirty = true
	return true
}

// collinear reports whether b→c continues the direction of a→b.
func (t *Tracker) collinear(a, b, c mgl32.Vec2) bool {
	seg := b.Sub(a)
	next := c.Sub(b)
	if seg.Len() == 0 || next.Len() == 0 {
		return false
	}
	return seg.Normalize().Dot(next.Normalize()) >= t.CollinearDot
}

// End finishes the gesture and returns a frozen copy of the polyline. ok is false
// when fewer than MinPoints points were committed; the caller must not resolve a selection then.
func (t *Tracker) End() (line Polyline, ok bool) {
	t.active = false
	t.visible = false
	t.dirty = true
	if len(t.points) < MinPoints {
		return nil, false
	}
	return append(Polyline(nil), t.points...), true
}

// Active reports whether a gesture is in progress.
func (t *Tracker) Active() bool { return t.active }

// Visible reports whether the live preview should be drawn.
func (t *Tracker) Visible() bool { return t.visible }

// Len returns the number of committed points.
func (t *Tracker) Len() int { return len(t.points) }

// Points returns the committed points. The slice is only valid until the next Begin or Extend.
func (t *Tracker) Points() Polyline { return t.points }

// TakeDirty reports whether the preview changed since the last call and clears the flag.
func (t *Tracker) TakeDirty() bool {
	d := t.dirty
	t.dirty = false
	return d
}

// Preview returns the polyline closed back to its first point, for display only.
func (t *Tracker) Preview() Polyline {
	if len(t.points) == 0 {
		return nil
	}
	out := make(Polyline, 0, len(t.points)+1)
	out = append(out, t.points...)
	return append(out, t.points[0])
}
