package render

import (
	"image/color"

	"acupoint-viewer/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Matrix converts a column-major mgl32 matrix to raylib's layout (also column-major: Mi = m[i]).
func Matrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

// Vector3 converts a point or direction.
func Vector3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X(), v.Y(), v.Z())
}

// Color converts a material colour.
func Color(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// Camera3D converts the pose of cam. raylib derives its own near/far and aspect from this
// struct, so callers override the matrices with applyCamera after BeginMode3D.
func Camera3D(cam *scene.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   Vector3(cam.Position),
		Target:     Vector3(cam.Target),
		Up:         Vector3(cam.Up),
		Fovy:       cam.FovY,
		Projection: rl.CameraPerspective,
	}
}

// applyCamera replaces the matrices set by BeginMode3D with the exact view and projection of cam.
func applyCamera(cam *scene.Camera) {
	rl.SetMatrixProjection(Matrix(cam.Projection()))
	rl.SetMatrixModelview(Matrix(cam.View()))
}

// encodeID packs id+1 into 24 bits of RGB so the cleared (0,0,0) background decodes to the sentinel.
func encodeID(id int32) [4]uint8 {
	v := uint32(id + 1)
	return [4]uint8{uint8(v), uint8(v >> 8), uint8(v >> 16), 255}
}

// decodeID is the inverse of encodeID.
func decodeID(c color.RGBA) int32 {
	return int32(uint32(c.R)|uint32(c.G)<<8|uint32(c.B)<<16) - 1
}
