package render

import (
	"image/color"

	"acupoint-viewer/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	gridExtent     = 10
	gridMinorStep  = 1
	gridMajorStep  = 5
	gridMinorAlpha = 60
	gridMajorAlpha = 130
)

// Background is the clear colour of the visible view.
var Background = rl.NewColor(0x26, 0x32, 0x38, 0xff)

// PreviewColor is the colour of the live lasso outline.
var PreviewColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// View draws the visible scene: grid, lit meshes, line markers and the lasso preview.
type View struct {
	cache    *MeshCache
	lighting lighting
}

// NewView returns a view drawing meshes through cache.
func NewView(cache *MeshCache) *View {
	return &View{cache: cache, lighting: defaultLighting}
}

// Frame is what one Draw call shows.
type Frame struct {
	Root    *scene.Node
	Camera  *scene.Camera
	Preview []mgl32.Vec3
	Grid    bool
}

// Draw renders f. Call between BeginDrawing and EndDrawing, after ClearBackground.
func (v *View) Draw(f Frame) {
	rl.BeginMode3D(Camera3D(f.Camera))
	applyCamera(f.Camera)
	if f.Grid {
		drawEditorGrid()
	}
	rl.DisableBackfaceCulling()
	scene.Walk(f.Root, scene.VisibleMeshFunc(func(n *scene.Node) {
		if !n.HasGeometry() {
			return
		}
		switch n.Material.Kind {
		case scene.MaterialLine:
			drawLines(n)
		case scene.MaterialLit:
			v.cache.drawLit(n, v.lighting)
		}
	}))
	rl.EnableBackfaceCulling()
	if len(f.Preview) > 1 {
		drawPreview(f.Preview)
	}
	rl.EndMode3D()
}

// drawPreview draws the lasso on top of everything: it sits on the anchored plane just in
// front of the camera, so depth testing would only clip it against the near plane.
func drawPreview(line []mgl32.Vec3) {
	rl.DrawRenderBatchActive()
	rl.DisableDepthTest()
	col := Color(PreviewColor)
	for i := 0; i+1 < len(line); i++ {
		rl.DrawLine3D(Vector3(line[i]), Vector3(line[i+1]), col)
	}
	rl.DrawRenderBatchActive()
	rl.EnableDepthTest()
}

// drawEditorGrid draws a grid on the XZ plane with major and minor lines.
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	var start, end rl.Vector3
	for x := -gridExtent; x <= gridExtent; x += gridMinorStep {
		c := major
		if x%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(x), 0, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(x), 0, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
	}
	for z := -gridExtent; z <= gridExtent; z += gridMinorStep {
		c := major
		if z%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(-gridExtent), 0, float32(z)
		end.X, end.Y, end.Z = float32(gridExtent), 0, float32(z)
		rl.DrawLine3D(start, end, c)
	}
}
