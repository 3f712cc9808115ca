package loader

import (
	"acupoint-viewer/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

type demoPart struct {
	name string
	size mgl32.Vec3
	pos  mgl32.Vec3
	roll float32 // degrees about +Z
}

var demoSkin = []demoPart{
	{"Palm", mgl32.Vec3{2, 2.4, 0.5}, mgl32.Vec3{0, 0, 0}, 0},
	{"Index", mgl32.Vec3{0.36, 1.5, 0.36}, mgl32.Vec3{-0.72, 1.95, 0}, 0},
	{"Middle", mgl32.Vec3{0.38, 1.7, 0.38}, mgl32.Vec3{-0.24, 2.05, 0}, 0},
	{"Ring", mgl32.Vec3{0.36, 1.55, 0.36}, mgl32.Vec3{0.24, 1.98, 0}, 0},
	{"Little", mgl32.Vec3{0.32, 1.2, 0.32}, mgl32.Vec3{0.72, 1.8, 0}, 0},
	{"Thumb", mgl32.Vec3{0.42, 1.3, 0.42}, mgl32.Vec3{-1.35, 0.1, 0}, 35},
	{"Wrist", mgl32.Vec3{1.6, 0.8, 0.45}, mgl32.Vec3{0, -1.6, 0}, 0},
}

// Acupoints sit just in front of the palm-side faces so they are not occluded from the front.
var demoPoints = []struct {
	name string
	pos  mgl32.Vec3
}{
	{"M_LU9", mgl32.Vec3{-0.55, -1.35, 0.3}},
	{"M_LU10", mgl32.Vec3{-1.05, -0.75, 0.3}},
	{"M_LU11", mgl32.Vec3{-1.72, 0.62, 0.3}},
	{"M_LI4", mgl32.Vec3{-0.85, 0.55, 0.3}},
	{"M_LI1", mgl32.Vec3{-0.72, 2.6, 0.25}},
	{"M_PC8", mgl32.Vec3{-0.15, 0.2, 0.3}},
	{"M_PC9", mgl32.Vec3{-0.24, 2.8, 0.25}},
	{"M_PC7", mgl32.Vec3{0, -1.45, 0.3}},
	{"M_HT7", mgl32.Vec3{0.5, -1.35, 0.3}},
	{"M_HT8", mgl32.Vec3{0.55, 0.3, 0.3}},
	{"M_HT9", mgl32.Vec3{0.72, 2.3, 0.22}},
	{"M_SJ1", mgl32.Vec3{0.24, 2.65, 0.25}},
	{"M_SI3", mgl32.Vec3{0.92, 0.6, 0.3}},
}

const demoPointSize = 0.14

// DemoHand returns a coarse box-built hand with meridian acupoints, used when no model
// source is configured.
func DemoHand() *scene.Node {
	root := scene.NewGroup("DemoHand")
	skin := scene.NewGroup("Skin")
	for _, p := range demoSkin {
		n := scene.NewMesh(p.name, scene.Box(p.size.X(), p.size.Y(), p.size.Z()), scene.Material{Kind: scene.MaterialLit, Color: modelColor})
		n.Transform.Position = p.pos
		if p.roll != 0 {
			n.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(p.roll), mgl32.Vec3{0, 0, 1})
		}
		skin.Add(n)
	}
	points := scene.NewGroup("Acupoints")
	for _, p := range demoPoints {
		n := scene.NewMesh(p.name, scene.Box(demoPointSize, demoPointSize, demoPointSize), scene.Material{Kind: scene.MaterialLit, Color: pointColor})
		n.Transform.Position = p.pos
		points.Add(n)
	}
	root.Add(skin, points)
	return root
}
