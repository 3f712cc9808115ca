package mask

import (
	"acupoint-viewer/internal/scene"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDepth is how far in front of the camera the mask and the lasso preview sit.
const DefaultDepth = 0.2

// Anchor pins camera-attached 2D content to the full viewport. Content is authored in NDC;
// scaling by Scale at Depth in front of the camera makes [-1,1]² fill the view for the
// camera's current field of view and aspect ratio.
type Anchor struct {
	Depth float32
}

// Scale returns the per-frame scale: tan(fov/2)·depth vertically, times aspect horizontally.
func (a Anchor) Scale(cam *scene.Camera) mgl32.Vec3 {
	y := math32.Tan(mgl32.DegToRad(cam.FovY)/2) * a.Depth
	return mgl32.Vec3{y * cam.Aspect, y, 1}
}

// ToCamera maps an NDC point onto the anchored plane in camera space.
func (a Anchor) ToCamera(cam *scene.Camera, ndc mgl32.Vec2) mgl32.Vec3 {
	s := a.Scale(cam)
	return mgl32.Vec3{ndc.X() * s.X(), ndc.Y() * s.Y(), -a.Depth}
}

// ToWorld maps an NDC point onto the anchored plane in world space.
func (a Anchor) ToWorld(cam *scene.Camera, ndc mgl32.Vec2) mgl32.Vec3 {
	return mgl32.TransformCoordinate(a.ToCamera(cam, ndc), cam.WorldMatrix())
}

// NDCDepth returns the normalized device depth of the anchored plane.
func (a Anchor) NDCDepth(cam *scene.Camera) float32 {
	clip := cam.Projection().Mul4x1(mgl32.Vec4{0, 0, -a.Depth, 1})
	return clip.Z() / clip.W()
}
