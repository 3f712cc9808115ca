package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// maxPitch keeps orbiting away from the poles where the look-at basis degenerates.
const maxPitch = 89 * math32.Pi / 180

// Camera is a perspective camera described by its pose and projection.
// FovY is the vertical field of view in degrees.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FovY     float32
	Aspect   float32
	Near     float32
	Far      float32
}

// NewPerspective returns a camera at (0,0,1) looking at the origin.
func NewPerspective(fovY, aspect, near, far float32) *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 0, 1},
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     fovY,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the OpenGL-style perspective matrix (NDC depth in [-1, 1]).
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// WorldMatrix returns the camera-to-world matrix; objects attached to the camera use it as parent.
func (c *Camera) WorldMatrix() mgl32.Mat4 {
	return c.View().Inv()
}

// Clone returns an independent copy.
func (c *Camera) Clone() *Camera {
	cp := *c
	return &cp
}

// CopyFrom makes c observe exactly what src observes.
func (c *Camera) CopyFrom(src *Camera) {
	*c = *src
}

// SetViewport updates the aspect ratio for a viewport of w×h pixels.
func (c *Camera) SetViewport(w, h int) {
	if w > 0 && h > 0 {
		c.Aspect = float32(w) / float32(h)
	}
}

// Distance returns the distance from Position to Target.
func (c *Camera) Distance() float32 {
	return c.Position.Sub(c.Target).Len()
}

// Orbit rotates the camera around Target by yaw (about world Y) and pitch, both in radians.
func (c *Camera) Orbit(yaw, pitch float32) {
	offset := c.Position.Sub(c.Target)
	r := offset.Len()
	if r == 0 {
		return
	}
	theta := math32.Atan2(offset.X(), offset.Z()) - yaw
	phi := math32.Asin(clamp(offset.Y()/r, -1, 1)) + pitch
	phi = clamp(phi, -maxPitch, maxPitch)
	cosPhi := math32.Cos(phi)
	c.Position = c.Target.Add(mgl32.Vec3{
		r * cosPhi * math32.Sin(theta),
		r * math32.Sin(phi),
		r * cosPhi * math32.Cos(theta),
	})
}

// Zoom moves the camera towards Target by factor (>1 moves away) without going closer than minDist.
func (c *Camera) Zoom(factor, minDist float32) {
	offset := c.Position.Sub(c.Target)
	r := offset.Len()
	if r == 0 || factor <= 0 {
		return
	}
	nr := max(r*factor, minDist)
	c.Position = c.Target.Add(offset.Mul(nr / r))
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(hi, v))
}
