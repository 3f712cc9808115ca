package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Box3 is an axis-aligned bounding box. An empty box has Min > Max.
type Box3 struct {
	Min, Max mgl32.Vec3
}

// EmptyBox returns a box that contains nothing; expanding it by a point yields that point.
func EmptyBox() Box3 {
	inf := math32.Inf(1)
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no point.
func (b Box3) IsEmpty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

// Expand returns the smallest box containing b and p.
func (b Box3) Expand(p mgl32.Vec3) Box3 {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	return b.Expand(o.Min).Expand(o.Max)
}

// Center returns the box midpoint.
func (b Box3) Center() mgl32.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

// Size returns the box extent on each axis.
func (b Box3) Size() mgl32.Vec3 { return b.Max.Sub(b.Min) }

// Corners returns the eight corners; bit 0 of the index selects max X, bit 1 max Y, bit 2 max Z.
func (b Box3) Corners() [8]mgl32.Vec3 {
	var c [8]mgl32.Vec3
	for i := range c {
		c[i] = b.Min
		if i&1 != 0 {
			c[i][0] = b.Max[0]
		}
		if i&2 != 0 {
			c[i][1] = b.Max[1]
		}
		if i&4 != 0 {
			c[i][2] = b.Max[2]
		}
	}
	return c
}

// Transform returns the axis-aligned box around b's corners transformed by m.
func (b Box3) Transform(m mgl32.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for _, c := range b.Corners() {
		out = out.Expand(mgl32.TransformCoordinate(c, m))
	}
	return out
}

// WorldBounds returns the world-space box around all geometry in the subtree rooted at n.
func WorldBounds(n *Node) Box3 {
	out := EmptyBox()
	Walk(n, MeshFunc(func(m *Node) {
		if m.HasGeometry() {
			out = out.Union(m.Geometry.Bounds().Transform(m.WorldMatrix()))
		}
	}))
	return out
}
