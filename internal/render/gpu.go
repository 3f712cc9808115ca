package render

import (
	"fmt"
	"image/color"

	"acupoint-viewer/internal/mask"
	"acupoint-viewer/internal/picking"
	"acupoint-viewer/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUTarget renders the picking scene into an off-screen RGBA8 render texture. IDs are
// stored as id+1 in RGB, so a cleared pixel reads back as the sentinel. The mask is a
// textured quad on the anchored plane; uncovered texels are discarded so the depth test
// lets only geometry in front of the plane survive outside the hole.
type GPUTarget struct {
	rt    rl.RenderTexture2D
	w, h  int
	cache *MeshCache

	maskShader rl.Shader
	maskTex    rl.Texture2D
	maskOf     *mask.Shape
}

// GPUAllocator returns a picking allocator creating render textures that draw meshes through cache.
func GPUAllocator(cache *MeshCache) picking.Allocator {
	return func(w, h int) (picking.Target, error) {
		return NewGPUTarget(cache, w, h)
	}
}

// NewGPUTarget allocates a w×h render texture with a depth attachment.
func NewGPUTarget(cache *MeshCache, w, h int) (*GPUTarget, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", picking.ErrTargetSize, w, h)
	}
	rt := rl.LoadRenderTexture(int32(w), int32(h))
	if !rl.IsRenderTextureValid(rt) {
		return nil, fmt.Errorf("render: could not create %dx%d render texture", w, h)
	}
	t := &GPUTarget{rt: rt, w: w, h: h, cache: cache}
	t.maskShader = rl.LoadShaderFromMemory(maskVS, maskFS)
	return t, nil
}

func (t *GPUTarget) Size() (int, int) { return t.w, t.h }

func (t *GPUTarget) Render(s *picking.Scene) error {
	if t.rt.ID == 0 {
		return fmt.Errorf("render: render on released target")
	}
	if s.Mask != nil {
		if err := t.uploadMask(s.Mask); err != nil {
			return err
		}
	}
	rl.BeginTextureMode(t.rt)
	rl.ClearBackground(rl.NewColor(0, 0, 0, 255))
	rl.BeginMode3D(Camera3D(s.Camera))
	applyCamera(s.Camera)
	rl.EnableDepthTest()
	rl.DisableBackfaceCulling()
	rl.DisableColorBlend()
	scene.Walk(s.Root, scene.VisibleMeshFunc(func(n *scene.Node) {
		if n.HasGeometry() {
			t.cache.drawID(n)
		}
	}))
	if s.Mask != nil {
		t.drawMask(s.Camera, s.Anchor)
	}
	rl.DrawRenderBatchActive()
	rl.EnableColorBlend()
	rl.EnableBackfaceCulling()
	rl.EndMode3D()
	rl.EndTextureMode()
	return nil
}

// uploadMask refreshes the coverage texture when the shape changed since the last render.
func (t *GPUTarget) uploadMask(s *mask.Shape) error {
	if s == t.maskOf && t.maskTex.ID != 0 {
		return nil
	}
	cov, err := s.Coverage(t.w, t.h)
	if err != nil {
		return fmt.Errorf("render: mask: %w", err)
	}
	pix := make([]byte, t.w*t.h)
	for y := 0; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			pix[y*t.w+x] = cov.At(x, y)
		}
	}
	img := rl.NewImage(pix, int32(t.w), int32(t.h), 1, rl.UncompressedGrayscale)
	if t.maskTex.ID != 0 {
		rl.UnloadTexture(t.maskTex)
	}
	t.maskTex = rl.LoadTextureFromImage(img)
	t.maskOf = s
	return nil
}

// maskCorners are the NDC corners of the mask quad, counter-clockwise from top-left.
var maskCorners = [4]mgl32.Vec2{{-1, 1}, {-1, -1}, {1, -1}, {1, 1}}

// maskUV maps an NDC point to coverage texture coordinates: v = 0 is texture row 0,
// the top row of the coverage raster.
func maskUV(ndc mgl32.Vec2) (u, v float32) {
	return (ndc.X() + 1) / 2, (1 - ndc.Y()) / 2
}

// drawMask draws the coverage texture over the full view on the anchored plane. Row 0 of
// the texture is the top of the viewport.
func (t *GPUTarget) drawMask(cam *scene.Camera, a mask.Anchor) {
	sentinel := encodeID(scene.SentinelID)
	rl.DrawRenderBatchActive()
	rl.BeginShaderMode(t.maskShader)
	rl.SetTexture(t.maskTex.ID)
	rl.Begin(rl.Quads)
	rl.Color4ub(sentinel[0], sentinel[1], sentinel[2], sentinel[3])
	for _, c := range maskCorners {
		u, v := maskUV(c)
		p := a.ToWorld(cam, c)
		rl.TexCoord2f(u, v)
		rl.Vertex3f(p.X(), p.Y(), p.Z())
	}
	rl.End()
	rl.SetTexture(0)
	rl.EndShaderMode()
}

// ReadPixels copies the render texture into dst, top row first, decoding the packed IDs
// into channel 0.
func (t *GPUTarget) ReadPixels(dst []int32) error {
	if t.rt.ID == 0 {
		return fmt.Errorf("render: read from released target")
	}
	if len(dst) != t.w*t.h*picking.Channels {
		return fmt.Errorf("render: readback buffer has %d values, want %d", len(dst), t.w*t.h*picking.Channels)
	}
	img := rl.LoadImageFromTexture(t.rt.Texture)
	defer rl.UnloadImage(img)
	cols := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(cols)
	return decodeRows(cols, t.w, t.h, dst)
}

// decodeRows decodes a bottom-up w×h colour readback, as render textures store it, into
// dst with the top row first.
func decodeRows(cols []color.RGBA, w, h int, dst []int32) error {
	if len(cols) != w*h {
		return fmt.Errorf("render: readback has %d pixels, want %d", len(cols), w*h)
	}
	for y := 0; y < h; y++ {
		src := cols[(h-1-y)*w : (h-y)*w]
		for x, c := range src {
			i := (y*w + x) * picking.Channels
			dst[i], dst[i+1], dst[i+2], dst[i+3] = decodeID(c), 0, 0, 1
		}
	}
	return nil
}

func (t *GPUTarget) Release() {
	if t.rt.ID != 0 {
		rl.UnloadRenderTexture(t.rt)
		t.rt = rl.RenderTexture2D{}
	}
	if t.maskTex.ID != 0 {
		rl.UnloadTexture(t.maskTex)
		t.maskTex = rl.Texture2D{}
	}
	if rl.IsShaderValid(t.maskShader) {
		rl.UnloadShader(t.maskShader)
		t.maskShader = rl.Shader{}
	}
	t.maskOf = nil
}

const (
	maskVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec4 vertexColor;
uniform mat4 mvp;
out vec2 fragTexCoord;
flat out vec4 fragColor;
void main() {
  fragTexCoord = vertexTexCoord;
  fragColor = vertexColor;
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	// Coverage is a grayscale texture; covered texels read as 1.0 in the red channel.
	maskFS = `#version 330
in vec2 fragTexCoord;
flat in vec4 fragColor;
uniform sampler2D texture0;
out vec4 finalColor;
void main() {
  if (texture(texture0, fragTexCoord).r < 0.5) discard;
  finalColor = fragColor;
}
`
)
