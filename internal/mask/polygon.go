// Package mask turns a finished lasso into the stencil shape that limits the
// picking pass to the enclosed screen region.
package mask

import "github.com/go-gl/mathgl/mgl32"

// Outer is the fixed outer boundary. In anchor-local coordinates it covers the whole viewport.
var Outer = [4]mgl32.Vec2{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}

// Polygon is the outer rectangle punched by a single hole. The hole is closed implicitly.
type Polygon struct {
	Outer [4]mgl32.Vec2
	Hole  []mgl32.Vec2
}

// Build returns the polygon whose hole is a copy of line.
func Build(line []mgl32.Vec2) Polygon {
	return Polygon{Outer: Outer, Hole: append([]mgl32.Vec2(nil), line...)}
}

// Contains reports whether pt is covered by the polygon under the even-odd rule,
// i.e. inside the outer rectangle and outside the hole.
func (p Polygon) Contains(pt mgl32.Vec2) bool {
	return ringContains(p.Outer[:], pt) != ringContains(p.Hole, pt)
}

// ringContains is the crossing-number test against the closed ring pts.
func ringContains(pts []mgl32.Vec2, pt mgl32.Vec2) bool {
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y() > pt.Y()) != (b.Y() > pt.Y()) {
			x := (b.X()-a.X())*(pt.Y()-a.Y())/(b.Y()-a.Y()) + a.X()
			if pt.X() < x {
				in = !in
			}
		}
	}
	return in
}

// toPixel maps an NDC point to target pixels, origin top-left.
func toPixel(v mgl32.Vec2, w, h int) (float32, float32) {
	return (v.X() + 1) / 2 * float32(w), (1 - v.Y()) / 2 * float32(h)
}
